package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/artifact"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
)

var transformFlags struct {
	payment string
	mtr     string
	out     string
	gapRows int
	policy  string
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a report pair into output files without a database",
	Long: `Reads a payment report and an MTR report from disk and writes
transformed_payment_report.csv, transformed_mtr_report.xlsx and
exemplar_report.xlsx into the output directory.

Example:
  goexemplar transform --payment payments.csv --mtr mtr.xlsx --out ./output`,
	RunE: runTransform,
}

func init() {
	f := transformCmd.Flags()
	f.StringVar(&transformFlags.payment, "payment", "", "payment report (CSV or XLSX)")
	f.StringVar(&transformFlags.mtr, "mtr", "", "MTR report (XLSX or CSV)")
	f.StringVar(&transformFlags.out, "out", "./output", "output directory")
	f.IntVar(&transformFlags.gapRows, "gap-rows", usecase.DefaultGapRows, "blank rows between the MTR and payment sections")
	f.StringVar(&transformFlags.policy, "unmatched", string(usecase.PolicyKeep), "unmatched order policy: keep, skip or error")

	_ = transformCmd.MarkFlagRequired("payment")
	_ = transformCmd.MarkFlagRequired("mtr")
}

func runTransform(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	policy, err := usecase.ParsePolicy(transformFlags.policy)
	if err != nil {
		return err
	}

	payment, err := readReport(entity.PartPaymentReport, transformFlags.payment)
	if err != nil {
		return err
	}
	mtr, err := readReport(entity.PartMTRReport, transformFlags.mtr)
	if err != nil {
		return err
	}

	tr, err := usecase.Transform(ctx, usecase.UploadInput{Payment: payment, MTR: mtr}, usecase.Options{
		GapRows: transformFlags.gapRows,
		Policy:  policy,
	})
	if err != nil {
		return err
	}

	writer, err := artifact.NewLocalWriter(transformFlags.out)
	if err != nil {
		return err
	}

	files, err := writer.Write(ctx, tr.Artifacts)
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\t%s\n", file.Path, file.Rows, file.Checksum)
	}
	slog.InfoContext(ctx, "transformation completed", "records", len(tr.Records), "out", writer.Dir())

	return nil
}

func readReport(part, path string) (entity.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.UploadedFile{}, fmt.Errorf("read %s: %w", part, err)
	}
	return entity.UploadedFile{Part: part, Filename: filepath.Base(path), Data: data}, nil
}
