package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	confirmedPangulo string
	confirmedMember  string
	exportPath       string
	resetConfirmed   bool
)

// confirmedCmd looks up a previously confirmed pangulo/member pairing.
var confirmedCmd = &cobra.Command{
	Use:   "confirmed",
	Short: "Look up a confirmed relationship between a pangulo and a member",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		rel := engine.GetConfirmedRelationship(confirmedPangulo, confirmedMember)
		if rel == nil {
			fmt.Println("No confirmed relationship")
			return nil
		}
		fmt.Printf("Relasyon:  %s\n", rel.Relasyon)
		fmt.Printf("Confirmed: %d times (last %s)\n", rel.ConfirmedCount, rel.LastConfirmed)
		if rel.Kapisanan != "" {
			fmt.Printf("Kapisanan: %s\n", rel.Kapisanan)
		}
		return nil
	},
}

// exportCmd writes the full learning document as JSON.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the learning document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		data, err := engine.Export()
		if err != nil {
			return err
		}
		if exportPath == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportPath, data, 0600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Printf("Exported to %s\n", exportPath)
		return nil
	},
}

// importCmd replaces the learning document with a previously exported one.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a previously exported learning document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		if err := engine.Import(data); err != nil {
			return err
		}
		fmt.Println("Import complete")
		return nil
	},
}

// resetCmd wipes all learned state. Requires --yes; this is not undoable.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all learned state to an empty document",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return fmt.Errorf("reset discards all learned state; pass --yes to confirm")
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		if err := engine.Reset(); err != nil {
			return err
		}
		fmt.Println("Learning state reset")
		return nil
	},
}

func init() {
	confirmedCmd.Flags().StringVar(&confirmedPangulo, "pangulo", "", "Pangulo full name")
	confirmedCmd.Flags().StringVar(&confirmedMember, "member", "", "Member full name")
	confirmedCmd.MarkFlagRequired("pangulo")
	confirmedCmd.MarkFlagRequired("member")

	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "Output file (default: stdout)")

	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm the reset")
}
