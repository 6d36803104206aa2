package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidseg/internal/budget"
)

type hardwareReport struct {
	Device              string  `json:"device"`
	SystemMemoryGB      float64 `json:"system_memory_gb"`
	AcceleratorMemoryGB float64 `json:"accelerator_memory_gb"`
	ClassifierBatch     int     `json:"classifier_batch"`
	OCRBatch            int     `json:"ocr_batch"`
	ConfiguredBatch     int     `json:"configured_batch,omitempty"`
}

func newHardwareCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Show detected memory and the batch sizes it allows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			hw := budget.Detect(cfg.Hardware.UseAccelerator, cfg.Hardware.AcceleratorMemoryGB)
			report := hardwareReport{
				Device:              "cpu",
				SystemMemoryGB:      hw.SystemGB,
				AcceleratorMemoryGB: hw.AcceleratorGB,
				ClassifierBatch:     hw.BatchSize(budget.TaskClassifier),
				OCRBatch:            hw.BatchSize(budget.TaskOCR),
				ConfiguredBatch:     cfg.Classifier.BatchSize,
			}
			if hw.Accelerated() {
				report.Device = "accelerator"
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			classifierBatch := strconv.Itoa(report.ClassifierBatch)
			if report.ConfiguredBatch > 0 {
				classifierBatch = fmt.Sprintf("%d (config override; budget %d)", report.ConfiguredBatch, report.ClassifierBatch)
			}
			rows := [][]string{
				{"Device", report.Device},
				{"System memory", humanize.IBytes(uint64(hw.SystemGB * (1 << 30)))},
				{"Accelerator memory", humanize.IBytes(uint64(hw.AcceleratorGB * (1 << 30)))},
				{"Use accelerator", yesNo(cfg.Hardware.UseAccelerator)},
				{"Classifier batch", classifierBatch},
				{"OCR batch", strconv.Itoa(report.OCRBatch)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{col("Property"), col("Value")}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}
