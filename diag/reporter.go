package diag

// Reporter receives the non-fatal diagnostics of a parse.
// Implementations: BagReporter (collects into a Bag), NopReporter, MultiReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans a diagnostic out to every reporter.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

func Warn(r Reporter, code Code, offset int, msg string) {
	if r != nil {
		r.Report(New(SevWarning, code, offset, msg))
	}
}

func Info(r Reporter, code Code, offset int, msg string) {
	if r != nil {
		r.Report(New(SevInfo, code, offset, msg))
	}
}
