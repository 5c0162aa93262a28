package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/datetime"
)

// Request field names.
const (
	fieldBirthDate = "生年月日"
	fieldStartYear = "開始年"
	fieldEndYear   = "終了年"
	fieldSalaries  = "年度別給与情報"
	fieldRates     = "年度別社会保険情報"
	fieldYear      = "年度"
	fieldIncome    = "収入金額"
	fieldHealth    = "健康保険料率"
	fieldCare      = "介護保険料率"
	fieldPension   = "厚生年金保険料率"

	// bodyPath names the request body itself in messages.
	bodyPath = "リクエストボディ"
)

// maxSafeInteger is the largest income that round-trips through a JSON number.
const maxSafeInteger = 1<<53 - 1

// JSON type names as reported in validation messages.
const (
	typeString    = "string"
	typeNumber    = "number"
	typeInteger   = "integer"
	typeFloat     = "float"
	typeBoolean   = "boolean"
	typeNull      = "null"
	typeArray     = "array"
	typeObject    = "object"
	typeUndefined = "undefined"
)

type issueCode int

const (
	issueInvalidType issueCode = iota
	issueInvalidDate
	issueTooSmall
	issueTooBig
)

// issue is the first problem found in a request body.
type issue struct {
	code     issueCode
	path     string
	expected string
	received string
	bound    float64
}

func (i *issue) message() string {
	switch i.code {
	case issueInvalidDate:
		return fmt.Sprintf("%sの日付形式が正しくありません。YYYY-MM-DD形式で入力してください", i.path)
	case issueTooSmall:
		return fmt.Sprintf("%sは%s以上である必要があります", i.path, formatBound(i.bound))
	case issueTooBig:
		return fmt.Sprintf("%sは%s以下である必要があります", i.path, formatBound(i.bound))
	}
	if i.received == typeUndefined {
		return fmt.Sprintf("必須パラメータが不足しています: %s", i.path)
	}
	return fmt.Sprintf("%sの型が正しくありません。%s型である必要がありますが、%s型が入力されました", i.path, i.expected, i.received)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decodeJSON parses a single JSON value, keeping numbers exact.
func decodeJSON(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return payload, nil
}

// validator checks a decoded request body field by field and stops at the
// first issue. Fields are checked in a fixed order so the reported issue is
// deterministic.
type validator struct {
	limits simulation.Limits
}

func (v validator) request(payload interface{}) (simulation.Request, *issue) {
	var req simulation.Request

	body, iss := object(payload, bodyPath)
	if iss != nil {
		return req, iss
	}

	birthDate, iss := date(body, fieldBirthDate)
	if iss != nil {
		return req, iss
	}
	startYear, iss := v.year(body, "", fieldStartYear)
	if iss != nil {
		return req, iss
	}
	endYear, iss := v.year(body, "", fieldEndYear)
	if iss != nil {
		return req, iss
	}

	salaries, iss := v.salaries(body)
	if iss != nil {
		return req, iss
	}
	rates, iss := v.rates(body)
	if iss != nil {
		return req, iss
	}

	req = simulation.Request{
		BirthDate: birthDate,
		StartYear: startYear,
		EndYear:   endYear,
		Salaries:  salaries,
		Rates:     rates,
	}
	return req, nil
}

func (v validator) salaries(body map[string]interface{}) (map[int]int64, *issue) {
	raw, ok := body[fieldSalaries]
	if !ok {
		return nil, &issue{code: issueInvalidType, path: fieldSalaries, expected: typeArray, received: typeUndefined}
	}
	items, iss := array(raw, fieldSalaries)
	if iss != nil {
		return nil, iss
	}

	salaries := make(map[int]int64, len(items))
	for i, raw := range items {
		prefix := joinPath(fieldSalaries, strconv.Itoa(i))
		item, iss := object(raw, prefix)
		if iss != nil {
			return nil, iss
		}
		year, iss := v.year(item, prefix, fieldYear)
		if iss != nil {
			return nil, iss
		}
		income, iss := integer(item, prefix, fieldIncome, 0, maxSafeInteger)
		if iss != nil {
			return nil, iss
		}
		salaries[year] = int64(income)
	}
	return salaries, nil
}

func (v validator) rates(body map[string]interface{}) (map[int]simulation.Rates, *issue) {
	raw, ok := body[fieldRates]
	if !ok {
		return nil, nil
	}
	items, iss := array(raw, fieldRates)
	if iss != nil {
		return nil, iss
	}

	rates := make(map[int]simulation.Rates, len(items))
	for i, raw := range items {
		prefix := joinPath(fieldRates, strconv.Itoa(i))
		item, iss := object(raw, prefix)
		if iss != nil {
			return nil, iss
		}
		year, iss := v.year(item, prefix, fieldYear)
		if iss != nil {
			return nil, iss
		}

		var r simulation.Rates
		for _, f := range []struct {
			name string
			dst  *float64
		}{{fieldHealth, &r.Health}, {fieldCare, &r.Care}, {fieldPension, &r.Pension}} {
			value, iss := number(item, prefix, f.name, 0, 1)
			if iss != nil {
				return nil, iss
			}
			*f.dst = value
		}
		rates[year] = r
	}
	return rates, nil
}

func (v validator) year(obj map[string]interface{}, prefix, key string) (int, *issue) {
	year, iss := integer(obj, prefix, key, float64(v.limits.MinYear), float64(v.limits.MaxYear))
	if iss != nil {
		return 0, iss
	}
	return int(year), nil
}

func date(obj map[string]interface{}, key string) (t time.Time, iss *issue) {
	raw, ok := obj[key]
	if !ok {
		return t, &issue{code: issueInvalidType, path: key, expected: typeString, received: typeUndefined}
	}
	s, ok := raw.(string)
	if !ok {
		return t, &issue{code: issueInvalidType, path: key, expected: typeString, received: typeOf(raw)}
	}
	parsed, err := datetime.ParseDate(s)
	if err != nil {
		return t, &issue{code: issueInvalidDate, path: key}
	}
	return parsed, nil
}

// number reads a bounded JSON number.
func number(obj map[string]interface{}, prefix, key string, min, max float64) (float64, *issue) {
	path := joinPath(prefix, key)
	value, iss := numberValue(obj, path, key)
	if iss != nil {
		return 0, iss
	}
	return value, bounds(path, value, min, max)
}

// integer reads a bounded JSON number that must have no fractional part.
func integer(obj map[string]interface{}, prefix, key string, min, max float64) (float64, *issue) {
	path := joinPath(prefix, key)
	value, iss := numberValue(obj, path, key)
	if iss != nil {
		return 0, iss
	}
	if !math.IsInf(value, 0) && value != math.Trunc(value) {
		return 0, &issue{code: issueInvalidType, path: path, expected: typeInteger, received: typeFloat}
	}
	return value, bounds(path, value, min, max)
}

func numberValue(obj map[string]interface{}, path, key string) (float64, *issue) {
	raw, ok := obj[key]
	if !ok {
		return 0, &issue{code: issueInvalidType, path: path, expected: typeNumber, received: typeUndefined}
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, &issue{code: issueInvalidType, path: path, expected: typeNumber, received: typeOf(raw)}
	}
	// The decoder only yields valid literals, so the only possible error is
	// ErrRange, where the value is already clamped to Inf or zero.
	value, _ := n.Float64()
	return value, nil
}

func bounds(path string, value, min, max float64) *issue {
	if value < min {
		return &issue{code: issueTooSmall, path: path, bound: min}
	}
	if value > max {
		return &issue{code: issueTooBig, path: path, bound: max}
	}
	return nil
}

func object(raw interface{}, path string) (map[string]interface{}, *issue) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &issue{code: issueInvalidType, path: path, expected: typeObject, received: typeOf(raw)}
	}
	return obj, nil
}

func array(raw interface{}, path string) ([]interface{}, *issue) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, &issue{code: issueInvalidType, path: path, expected: typeArray, received: typeOf(raw)}
	}
	return items, nil
}

func typeOf(raw interface{}) string {
	switch raw.(type) {
	case nil:
		return typeNull
	case string:
		return typeString
	case json.Number:
		return typeNumber
	case bool:
		return typeBoolean
	case []interface{}:
		return typeArray
	case map[string]interface{}:
		return typeObject
	default:
		return fmt.Sprintf("%T", raw)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
