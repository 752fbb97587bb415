package commandschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		kind    string
		doc     string
		invalid bool
	}{
		{
			name: "create template",
			kind: KindCreateTemplate,
			doc: `{"contributor_id":"alice","label":"Method","target_class":"C30","properties":[
				{"kind":"string_literal","label":"name","path":"P20","min_count":1,"max_count":1,"datatype":"String"},
				{"kind":"number_literal","label":"steps","path":"P21","datatype":"Integer","min_inclusive":"1"},
				{"kind":"resource","label":"dataset","path":"P22","class":"C31"}]}`,
		},
		{
			name:    "literal property without datatype",
			kind:    KindCreateTemplate,
			doc:     `{"contributor_id":"alice","label":"Method","target_class":"C30","properties":[{"kind":"other_literal","label":"x","path":"P20"}]}`,
			invalid: true,
		},
		{
			name:    "unknown property kind",
			kind:    KindCreateTemplate,
			doc:     `{"contributor_id":"alice","label":"Method","target_class":"C30","properties":[{"kind":"blob","label":"x","path":"P20"}]}`,
			invalid: true,
		},
		{
			name:    "bound is not a number",
			kind:    KindCreateTemplate,
			doc:     `{"contributor_id":"alice","label":"Method","target_class":"C30","properties":[{"kind":"number_literal","label":"x","path":"P20","datatype":"Integer","max_inclusive":"ten"}]}`,
			invalid: true,
		},
		{
			name: "update template keeps properties",
			kind: KindUpdateTemplate,
			doc:  `{"contributor_id":"alice","template_id":"R1","properties":null}`,
		},
		{
			name: "paper contents",
			kind: KindPaperContents,
			doc: `{"contributor_id":"alice","paper_id":"R1",
				"things":{"resources":{"#method":{"label":"Transformer"}}},
				"contributions":[{"label":"Contribution 1","statements":{"P32":[{"id":"#method"}]}}]}`,
		},
		{
			name:    "temp id without hash",
			kind:    KindPaperContents,
			doc:     `{"contributor_id":"alice","paper_id":"R1","things":{"resources":{"method":{"label":"x"}}},"contributions":[{"label":"c","statements":{"P32":[{"id":"R2"}]}}]}`,
			invalid: true,
		},
		{
			name:    "contribution without statements",
			kind:    KindPaperContents,
			doc:     `{"contributor_id":"alice","paper_id":"R1","contributions":[{"label":"c","statements":{}}]}`,
			invalid: true,
		},
		{
			name: "import paper",
			kind: KindImportPaper,
			doc: `{"paper":{"contributor_id":"alice","title":"Attention","research_field":"R10","identifiers":{"doi":["10.1/x"]},"extraction_method":"MANUAL"},
				"batches":[{"contributions":[{"label":"c","statements":{"P32":[{"id":"R2"}]}}]}]}`,
		},
		{
			name:    "bad extraction method",
			kind:    KindCreatePaper,
			doc:     `{"contributor_id":"alice","title":"t","research_field":"R10","extraction_method":"GUESSED"}`,
			invalid: true,
		},
		{
			name:    "update paper needs paper id",
			kind:    KindUpdatePaper,
			doc:     `{"contributor_id":"alice"}`,
			invalid: true,
		},
		{
			name: "validate instance",
			kind: KindValidateInstance,
			doc:  `{"template_id":"R1","statements":{"P20":["#name"]},"things":{"literals":{"#name":{"label":"Adam"}}}}`,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, []byte(tt.doc))
			if !tt.invalid {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.NotEmpty(t, verr.Violations)
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	err := Validate("delete_everything", []byte(`{}`))
	require.Error(t, err)
	var verr *ValidationError
	require.False(t, errors.As(err, &verr))
}

func TestValidateMalformedDocument(t *testing.T) {
	require.Error(t, Validate(KindCreatePaper, []byte(`{"contributor_id":`)))
}
