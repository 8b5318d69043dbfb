// Package seed loads catalog, price list and rule fixtures from YAML.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document is the root of a seed file. Entities reference each other by code.
type Document struct {
	TenantID       string          `yaml:"tenant_id"`
	Lines          []Line          `yaml:"lines"`
	PriceLists     []PriceList     `yaml:"price_lists"`
	Authorizations []Authorization `yaml:"authorizations"`
}

type Line struct {
	Code   string  `yaml:"code"`
	Name   string  `yaml:"name"`
	Groups []Group `yaml:"groups"`
}

type Group struct {
	Code     string    `yaml:"code"`
	Name     string    `yaml:"name"`
	Articles []Article `yaml:"articles"`
}

type Article struct {
	Code           string `yaml:"code"`
	Barcode        string `yaml:"barcode"`
	Description    string `yaml:"description"`
	Unit           string `yaml:"unit"`
	Cost           string `yaml:"cost"`
	SuggestedPrice string `yaml:"suggested_price"`
}

type PriceList struct {
	Code      string  `yaml:"code"`
	Name      string  `yaml:"name"`
	BranchID  string  `yaml:"branch_id"`
	Channel   string  `yaml:"channel"`
	Currency  string  `yaml:"currency"`
	ValidFrom string  `yaml:"valid_from"`
	ValidTo   string  `yaml:"valid_to"`
	Prices    []Price `yaml:"prices"`
	Rules     []Rule  `yaml:"rules"`
}

type Price struct {
	Article string `yaml:"article"`
	Base    string `yaml:"base"`
	Minimum string `yaml:"minimum"`
}

type Rule struct {
	Code         string `yaml:"code"`
	Kind         string `yaml:"kind"`
	Priority     int    `yaml:"priority"`
	Channel      string `yaml:"channel"`
	Line         string `yaml:"line"`
	Group        string `yaml:"group"`
	Article      string `yaml:"article"`
	MinQuantity  string `yaml:"min_quantity"`
	MinAmount    string `yaml:"min_amount"`
	DiscountType string `yaml:"discount_type"`
	Direction    string `yaml:"direction"`
	Value        string `yaml:"value"`
	ValidFrom    string `yaml:"valid_from"`
	ValidTo      string `yaml:"valid_to"`
	Description  string `yaml:"description"`
	Inactive     bool   `yaml:"inactive"`
}

type Authorization struct {
	SupplierID string `yaml:"supplier_id"`
	Line       string `yaml:"line"`
	Group      string `yaml:"group"`
	Article    string `yaml:"article"`
	Percent    string `yaml:"percent"`
	ValidFrom  string `yaml:"valid_from"`
	ValidTo    string `yaml:"valid_to"`
}

// Load reads and parses a seed file
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed document
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if _, err := uuid.Parse(doc.TenantID); err != nil {
		return nil, fmt.Errorf("tenant_id: %w", err)
	}
	return &doc, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseOptionalDecimal(field, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
