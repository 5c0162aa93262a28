package server

import (
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"testing"

	"github.com/iwvelando/life-planning/internal/simulation"
)

// openAPISchema is the subset of an OpenAPI schema object the request
// validator has to agree with.
type openAPISchema struct {
	Type       string                   `json:"type"`
	Required   []string                 `json:"required"`
	Properties map[string]openAPISchema `json:"properties"`
	Minimum    *float64                 `json:"minimum"`
	Maximum    *float64                 `json:"maximum"`
}

const validRequestBody = `{
  "生年月日": "1990-01-01",
  "開始年": 2020,
  "終了年": 2021,
  "年度別給与情報": [{"年度": 2020, "収入金額": 5000000}],
  "年度別社会保険情報": [{"年度": 2020, "健康保険料率": 0.0981, "介護保険料率": 0.0164, "厚生年金保険料率": 0.183}]
}`

func loadRequestSchemas(t *testing.T) map[string]openAPISchema {
	t.Helper()
	data, err := staticFiles.ReadFile("static/openapi.json")
	if err != nil {
		t.Fatalf("failed to read embedded OpenAPI document: %v", err)
	}
	var doc struct {
		Components struct {
			Schemas map[string]openAPISchema `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse embedded OpenAPI document: %v", err)
	}
	return doc.Components.Schemas
}

// TestOpenAPIRequestSchemaMatchesValidator mutates one field of a valid body
// at a time according to the published schema and checks the validator
// rejects it with the matching message.
func TestOpenAPIRequestSchemaMatchesValidator(t *testing.T) {
	schemas := loadRequestSchemas(t)
	v := validator{limits: simulation.DefaultLimits()}

	targets := []struct {
		schema string
		prefix string
		target func(body map[string]interface{}) map[string]interface{}
	}{
		{"LifePlanningRequest", "", func(body map[string]interface{}) map[string]interface{} { return body }},
		{"SalaryInfo", fieldSalaries + ".0", firstItem(fieldSalaries)},
		{"SocialInsuranceInfo", fieldRates + ".0", firstItem(fieldRates)},
	}

	for _, tt := range targets {
		schema, ok := schemas[tt.schema]
		if !ok {
			t.Fatalf("schema %s missing from OpenAPI document", tt.schema)
		}

		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := schema.Properties[name]
			path := joinPath(tt.prefix, name)
			required := slices.Contains(schema.Required, name)

			t.Run(path+"/missing", func(t *testing.T) {
				body := freshBody(t)
				delete(tt.target(body), name)
				iss := validate(v, body)
				if !required {
					if iss != nil {
						t.Fatalf("optional field rejected: %s", iss.message())
					}
					return
				}
				expectMessage(t, iss, "必須パラメータが不足しています: "+path)
			})

			t.Run(path+"/wrong type", func(t *testing.T) {
				body := freshBody(t)
				var wrong interface{} = "x"
				received := typeString
				if prop.Type == typeString {
					wrong, received = json.Number("1"), typeNumber
				}
				expected := prop.Type
				if expected == typeInteger {
					expected = typeNumber
				}
				tt.target(body)[name] = wrong
				expectMessage(t, validate(v, body), path+"の型が正しくありません。"+expected+"型である必要がありますが、"+received+"型が入力されました")
			})

			if prop.Type == typeInteger {
				t.Run(path+"/fractional", func(t *testing.T) {
					body := freshBody(t)
					tt.target(body)[name] = json.Number("2020.5")
					expectMessage(t, validate(v, body), path+"の型が正しくありません。integer型である必要がありますが、float型が入力されました")
				})
			}

			step := 0.01
			if prop.Type == typeInteger {
				step = 1
			}
			if prop.Minimum != nil {
				t.Run(path+"/below minimum", func(t *testing.T) {
					body := freshBody(t)
					tt.target(body)[name] = json.Number(strconv.FormatFloat(*prop.Minimum-step, 'f', -1, 64))
					expectMessage(t, validate(v, body), path+"は"+formatBound(*prop.Minimum)+"以上である必要があります")
				})
			}
			if prop.Maximum != nil {
				t.Run(path+"/above maximum", func(t *testing.T) {
					body := freshBody(t)
					tt.target(body)[name] = json.Number(strconv.FormatFloat(*prop.Maximum+step, 'f', -1, 64))
					expectMessage(t, validate(v, body), path+"は"+formatBound(*prop.Maximum)+"以下である必要があります")
				})
			}
		}
	}
}

func TestOpenAPIRequestSchemaAcceptsValidBody(t *testing.T) {
	body := freshBody(t)
	if iss := validate(validator{limits: simulation.DefaultLimits()}, body); iss != nil {
		t.Fatalf("valid body rejected: %s", iss.message())
	}
}

func freshBody(t *testing.T) map[string]interface{} {
	t.Helper()
	payload, err := decodeJSON([]byte(validRequestBody))
	if err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	return payload.(map[string]interface{})
}

func firstItem(field string) func(body map[string]interface{}) map[string]interface{} {
	return func(body map[string]interface{}) map[string]interface{} {
		return body[field].([]interface{})[0].(map[string]interface{})
	}
}

func validate(v validator, body map[string]interface{}) *issue {
	_, iss := v.request(body)
	return iss
}

func expectMessage(t *testing.T, iss *issue, want string) {
	t.Helper()
	if iss == nil {
		t.Fatalf("expected %q, got no issue", want)
	}
	if got := iss.message(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
