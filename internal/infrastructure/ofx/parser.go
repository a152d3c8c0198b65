// Package ofx reads OFX/QFX bank and credit card statements.
package ofx

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// ErrNoStatement is returned for files without bank or credit card statements.
var ErrNoStatement = errors.New("no bank or credit card statement found")

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	// SGML files exported by some banks drop the closing bracket of bare tags.
	unclosedTagRe = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements usecase.StatementParser with ofxgo.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns every transaction of every statement in the file, in file order.
func (p *Parser) Parse(r io.Reader) ([]usecase.StatementLine, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var (
		lines []usecase.StatementLine
		found bool
	)

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		found = true
		if stmt.BankTranList != nil {
			if lines, err = appendLines(lines, stmt.BankTranList.Transactions); err != nil {
				return nil, err
			}
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		found = true
		if stmt.BankTranList != nil {
			if lines, err = appendLines(lines, stmt.BankTranList.Transactions); err != nil {
				return nil, err
			}
		}
	}

	if !found {
		return nil, ErrNoStatement
	}

	return lines, nil
}

func appendLines(lines []usecase.StatementLine, txns []ofxgo.Transaction) ([]usecase.StatementLine, error) {
	for _, t := range txns {
		amount, err := decimal.NewFromString(t.TrnAmt.FloatString(4))
		if err != nil {
			return nil, fmt.Errorf("invalid amount in transaction %s: %w", t.FiTID, err)
		}

		line := usecase.StatementLine{
			FITID:  string(t.FiTID),
			Name:   payeeName(t),
			Memo:   strings.TrimSpace(string(t.Memo)),
			Amount: amount,
		}
		if !t.DtPosted.IsZero() {
			line.Date = domain.DateOf(t.DtPosted.Time)
		}

		lines = append(lines, line)
	}
	return lines, nil
}

func payeeName(t ofxgo.Transaction) string {
	if name := strings.TrimSpace(string(t.Name)); name != "" {
		return name
	}
	if t.Payee != nil {
		return strings.TrimSpace(string(t.Payee.Name))
	}
	return ""
}

func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n\ufeff")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRe.ReplaceAllString(content, "$1>")
}
