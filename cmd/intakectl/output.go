package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/http/mapper"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

func printUploadResponse(w io.Writer, resp mapper.UploadResponse) error {
	if viper.GetBool("json") {
		return printJSON(w, resp)
	}
	fmt.Fprintln(w, resp.Message)
	if err := renderParcels(w, resp.Parcels); err != nil {
		return err
	}
	if len(resp.Errors) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Parcel", "Error"})
	for _, e := range resp.Errors {
		tw.AppendRow(table.Row{e.ParcelID, e.Error})
	}
	tw.Render()
	return nil
}

func printParcels(w io.Writer, parcels []mapper.Parcel) error {
	if viper.GetBool("json") {
		return printJSON(w, parcels)
	}
	return renderParcels(w, parcels)
}

func renderParcels(w io.Writer, parcels []mapper.Parcel) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Parcel", "Department", "Status", "Weight", "Value", "Recipient", "Insured"})
	for _, p := range parcels {
		tw.AppendRow(table.Row{
			p.ParcelID,
			p.Department,
			p.Status,
			strconv.FormatFloat(p.Weight, 'f', -1, 64),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			p.Recipient,
			insuranceLabel(p),
		})
	}
	tw.Render()
	return nil
}

func insuranceLabel(p mapper.Parcel) string {
	switch {
	case !p.RequiresInsurance:
		return "-"
	case p.InsuranceApproved:
		return "approved"
	default:
		return "pending"
	}
}

func printRules(w io.Writer, rules mapper.BusinessRules) error {
	if viper.GetBool("json") {
		return printJSON(w, rules)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return err
	}
	return enc.Close()
}

// decodeRules reads a full rule document. YAML is a superset of JSON so both
// file formats go through the same decoder.
func decodeRules(raw []byte) (domain.RuleSet, error) {
	var doc mapper.BusinessRules
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}
	rules, err := mapper.ToRuleSet(doc)
	if err != nil {
		return domain.RuleSet{}, err
	}
	if err := rules.Validate(); err != nil {
		return domain.RuleSet{}, err
	}
	return rules, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
