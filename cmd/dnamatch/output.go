package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dnamatch/internal/api"
	"dnamatch/internal/domain"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *commandContext) wantJSON(cmd *cobra.Command) bool {
	return c.opts.json || !isTerminal(cmd.OutOrStdout())
}

func recordRows(r domain.MatchedRecord) [][]string {
	return [][]string{
		{"Name", r.Name},
		{"Status", string(r.Status)},
		{"National ID", r.NationalID},
		{"Gender", r.Gender},
		{"Birthdate", r.Birthdate},
		{"Blood type", r.BloodType},
		{"Address", r.Address},
		{"Phone", r.Phone},
		{"Description", r.Description},
	}
}

func printCompare(w io.Writer, resp api.CompareResponse) {
	fmt.Fprintln(w, renderTable(
		[]string{"Similarity %", "Match status"},
		[][]string{{strconv.Itoa(resp.SimilarityPercentage), resp.MatchStatus}},
		[]columnAlignment{alignRight, alignLeft},
	))
}

func printIdentify(w io.Writer, resp api.IdentifyResponse) {
	if resp.Matches == nil {
		fmt.Fprintln(w, resp.Message)
		return
	}
	rows := recordRows(*resp.Matches)
	rows = append(rows, []string{"Similarity %", strconv.Itoa(*resp.SimilarityPercentage)}, []string{"Match status", resp.MatchStatus})
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
}

func printMissing(w io.Writer, resp api.MissingResponse) {
	if resp.MainMatchInfo == nil {
		fmt.Fprintln(w, resp.Message)
		return
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, recordRows(resp.MainMatchInfo.MatchedRecord), nil))

	var rows [][]string
	for _, rel := range resp.PotentialRelativeInfo {
		if rel.RelativeData == nil {
			fmt.Fprintln(w, rel.Message)
			continue
		}
		rows = append(rows, []string{rel.RelativeData.Name, rel.RelativeData.NationalID, strconv.Itoa(*rel.SimilarityPercentage)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Relative", "National ID", "Similarity %"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	}
	for _, extra := range resp.AdditionalExactInfo {
		fmt.Fprintf(w, "additional exact match: %s (%s)\n", extra.Name, extra.NationalID)
	}
}
