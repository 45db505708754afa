package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New 建立以 json 欄位名回報錯誤的 validator
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationErrorMessage 輸出格式化的 validator error（欄位 json 路徑/規則）
func ValidationErrorMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Sprintf("Validation error: %s", err.Error())
	}
	var b strings.Builder
	b.WriteString("Validation error:")
	for i, fe := range errs {
		if i > 0 {
			b.WriteString(";")
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fmt.Fprintf(&b, " field %q failed '%s'", fieldPath(fe.Namespace()), rule)
	}
	return b.String()
}

// 去掉最外層型別名稱：Report.neatness.score → neatness.score
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func PayloadToMap(payload any) (map[string]any, error) {
	// 先轉 JSON
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// 再轉回 map[string]any
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
