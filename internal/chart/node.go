package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simonvc/lbcoa/internal/ledger"
)

// Metadata keys describe the node they sit on; every other key is a child account.
const (
	KeyAccountName     = "account_name"
	KeyAccountNumber   = "account_number"
	KeyAccountType     = "account_type"
	KeyRootType        = "root_type"
	KeyIsGroup         = "is_group"
	KeyTaxRate         = "tax_rate"
	KeyAccountCurrency = "account_currency"
	KeyArabicName      = "arabic_name"
	KeyFrenchName      = "french_name"
)

var metadataKeys = map[string]bool{
	KeyAccountName:     true,
	KeyAccountNumber:   true,
	KeyAccountType:     true,
	KeyRootType:        true,
	KeyIsGroup:         true,
	KeyTaxRate:         true,
	KeyAccountCurrency: true,
	KeyArabicName:      true,
	KeyFrenchName:      true,
}

// IsMetadataKey reports whether key carries node metadata rather than a child account.
func IsMetadataKey(key string) bool {
	return metadataKeys[key]
}

// Node is one account (group or leaf) of a chart tree. Children keep the order in which
// they appear in the source document.
type Node struct {
	Key             string
	AccountName     string
	AccountNumber   string
	AccountType     ledger.AccountType
	RootType        ledger.RootType
	Group           *bool
	TaxRate         *decimal.Decimal
	AccountCurrency string
	ArabicName      string
	FrenchName      string
	Children        []*Node

	// Stray holds non-metadata keys whose value was not an object. They are never
	// materialised but still make the node a group, as the chart format has always done.
	Stray []string
}

// IsGroup is the single group/leaf rule shared by every walk over a tree: an explicit
// is_group flag wins, otherwise any non-metadata key makes the node a group.
func (n *Node) IsGroup() bool {
	if n.Group != nil {
		return *n.Group
	}
	return len(n.Children) > 0 || len(n.Stray) > 0
}

// Value is the display key used by the tree view: "<number> - <key>" when numbered.
func (n *Node) Value() string {
	if n.AccountNumber != "" {
		return n.AccountNumber + " - " + n.Key
	}
	return n.Key
}

// EnglishName prefers an explicit account_name over the key.
func (n *Node) EnglishName() string {
	if n.AccountName != "" {
		return n.AccountName
	}
	return n.Key
}

// Walk visits every node depth-first, parents before children.
func (n *Node) Walk(fn func(node, parent *Node)) {
	for _, c := range n.Children {
		fn(c, n)
		c.Walk(fn)
	}
}

// Find returns the first node (depth-first) matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	for _, c := range n.Children {
		if pred(c) {
			return c
		}
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("chart node %q: expected object", n.Key)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("chart node %q: expected key, got %v", n.Key, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("chart node %q, key %q: %w", n.Key, key, err)
		}

		if IsMetadataKey(key) {
			if err := n.setMetadata(key, raw); err != nil {
				return fmt.Errorf("chart node %q: %w", n.Key, err)
			}
			continue
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			n.Stray = append(n.Stray, key)
			continue
		}

		child := &Node{Key: key}
		if err := json.Unmarshal(trimmed, child); err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}

	_, err = dec.Token()
	return err
}

func (n *Node) setMetadata(key string, raw json.RawMessage) error {
	text, isNull := scalarText(raw)
	if isNull {
		return nil
	}

	switch key {
	case KeyAccountName:
		n.AccountName = text
	case KeyAccountNumber:
		n.AccountNumber = text
	case KeyAccountType:
		n.AccountType = ledger.AccountType(text)
	case KeyRootType:
		if text == "" {
			return nil
		}
		root, err := ledger.ParseRootType(text)
		if err != nil {
			return err
		}
		n.RootType = root
	case KeyIsGroup:
		g, err := parseFlag(text)
		if err != nil {
			return fmt.Errorf("is_group: %w", err)
		}
		n.Group = &g
	case KeyTaxRate:
		if text == "" {
			return nil
		}
		rate, err := decimal.NewFromString(text)
		if err != nil {
			return fmt.Errorf("tax_rate: %w", err)
		}
		n.TaxRate = &rate
	case KeyAccountCurrency:
		n.AccountCurrency = text
	case KeyArabicName:
		n.ArabicName = text
	case KeyFrenchName:
		n.FrenchName = text
	}
	return nil
}

// scalarText renders a JSON scalar the way the chart format has always read it:
// strings unquoted and trimmed, numbers and booleans verbatim.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s), false
	}
	return strings.TrimSpace(string(trimmed)), false
}

func parseFlag(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v != 0, nil
	}
	return false, fmt.Errorf("unrecognised flag %q", text)
}
