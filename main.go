// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package main

import (
	"os"

	"github.com/piperpilot/DRCBotV2/drcbot"
)

func main() {
	os.Exit(drcbot.Execute())
}
