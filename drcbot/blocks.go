// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package drcbot

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/piperpilot/DRCBotV2/configurator"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
	stor "github.com/piperpilot/DRCBotV2/strings_storage"
)

func (a *app) blocksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks FILE",
		Short: "Split a Gerber file into blocks and print them with their offsets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			storage := splitToStorage(buf)
			if _, err := storage.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
			if !a.v.GetBool(configurator.CfgParserSaveIntermediate) {
				return nil
			}
			return saveIntermediate(storage, a.v.GetString(configurator.CfgParserIntermediateFile))
		},
	}
	cmd.Flags().Bool("save", false, "also save the blocks to parser.IntermediateFile")
	bindFlags(a.v, cmd.Flags(), map[string]string{"save": configurator.CfgParserSaveIntermediate})
	return cmd
}

// splitToStorage feeds the blocks of buf, with their offsets, to a new
// storage.
func splitToStorage(buf []byte) *stor.Storage {
	storage := stor.NewStorage()
	for _, b := range gerberlexer.SplitFile(buf) {
		storage.AcceptAt(b.Text, b.Offset)
	}
	return storage
}

// Saves intermediate results from the strings storage to the file
func saveIntermediate(storage *stor.Storage, fileName string) error {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err = storage.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
