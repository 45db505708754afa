// Package report 解析並驗證模型回傳的筆跡分析 JSON
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"handwriting/internal/core"
	"handwriting/utils/validate"

	"github.com/go-playground/validator/v10"
)

var ErrNoOutput = errors.New("model returned no output")

type Category struct {
	Score       int      `json:"score" validate:"min=1,max=10"`
	Details     []string `json:"details" validate:"len=5,dive,required"`
	Improvement string   `json:"improvement" validate:"required"`
}

type Report struct {
	Neatness          Category `json:"neatness" validate:"required"`
	Spacing           Category `json:"spacing" validate:"required"`
	Slant             Category `json:"slant" validate:"required"`
	Consistency       Category `json:"consistency" validate:"required"`
	LetterConsistency Category `json:"letter_consistency" validate:"required"`
	OverallComment    string   `json:"overall_comment" validate:"required"`
}

type Parser struct {
	validate *validator.Validate
}

func NewParser() *Parser {
	return &Parser{validate: validate.New()}
}

// Parse 只接受符合 schema 的 JSON；允許模型多包一層 ```json 區塊
func (p *Parser) Parse(text string) (*Report, error) {
	if text == core.NoOutputSentinel || strings.TrimSpace(text) == "" {
		return nil, ErrNoOutput
	}
	dec := json.NewDecoder(strings.NewReader(stripFence(text)))
	dec.DisallowUnknownFields()
	var r Report
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("report is not valid JSON: %w", err)
	}
	// 物件後面只能是空白，連多出來的 } 也不接受
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("report has trailing content after JSON object")
	}
	if err := p.validate.Struct(r); err != nil {
		return nil, errors.New(validate.ValidationErrorMessage(err))
	}
	return &r, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// 去掉語言標記，例如 ```json
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
