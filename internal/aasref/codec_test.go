package aasref

import (
	"errors"
	"testing"

	"github.com/aas-core-works/aas-core3.0-golang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestToPathIdentifiables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ref      *Reference
		expected string
	}{
		{name: "Submodel", ref: SubmodelReference("mySubmodel"), expected: "submodels/bXlTdWJtb2RlbA=="},
		{name: "Shell", ref: ShellReference("sm-1"), expected: "shells/c20tMQ=="},
		{name: "ConceptDescription", ref: ConceptDescriptionReference("sm-1"), expected: "concept-descriptions/c20tMQ=="},
		{
			name:     "URLIdentifierUsesURLSafeAlphabet",
			ref:      SubmodelReference("https://example.com/ids/sm/1"),
			expected: "submodels/aHR0cHM6Ly9leGFtcGxlLmNvbS9pZHMvc20vMQ==",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ToPath(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestToPathNestedElements(t *testing.T) {
	t.Parallel()

	ref := NewModelReference(
		NewKey(KeyTypeSubmodel, "mySubmodel"),
		NewKey(KeyTypeSubmodelElementCollection, "coll"),
		NewKey(KeyTypeSubmodelElement, "leaf"),
	)

	path, err := ToPath(ref)
	require.NoError(t, err)
	assert.Equal(t, "submodels/bXlTdWJtb2RlbA==/submodel-elements/coll.leaf", path)
}

func TestToPathListIndexIsDotJoined(t *testing.T) {
	t.Parallel()

	ref := NewModelReference(
		NewKey(KeyTypeSubmodel, "sm-1"),
		NewKey(KeyTypeSubmodelElementList, "list"),
		NewIndexKey(KeyTypeSubmodelElementCollection, 2),
		NewKey(KeyTypeProperty, "temperature"),
	)

	path, err := ToPath(ref)
	require.NoError(t, err)
	assert.Equal(t, "submodels/c20tMQ==/submodel-elements/list.2.temperature", path)
}

func TestToPathListChildWithoutValue(t *testing.T) {
	t.Parallel()

	ref := NewModelReference(
		NewKey(KeyTypeSubmodel, "sm-1"),
		NewKey(KeyTypeSubmodelElementList, "list"),
		Key{Type: KeyTypeProperty},
	)

	require.Empty(t, Validate(ref))
	_, err := ToPath(ref)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvableListIndex))
}

func TestToPathIsDeterministic(t *testing.T) {
	t.Parallel()

	ref := ElementReference(ElementReference(SubmodelReference("sm-1"), KeyTypeSubmodelElementCollection, "a"), KeyTypeOperation, "op")

	first, err := ToPath(ref)
	require.NoError(t, err)
	second, err := ToPath(ref)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestToPathMalformedReference(t *testing.T) {
	t.Parallel()

	ref := NewModelReference(NewKey(KeyTypeSubmodelElement, "leaf"))

	_, err := ToPath(ref)
	require.Error(t, err)

	var malformed *MalformedReferenceError
	require.True(t, errors.As(err, &malformed))
	assert.Same(t, ref, malformed.Reference)
	assert.NotEmpty(t, malformed.Problems)
	assert.Contains(t, err.Error(), "AASREF-TOPATH-MALFORMED")
	assert.True(t, IsMalformedReference(err))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ref           *Reference
		wantProblems  int
		wantSubstring string
	}{
		{name: "Valid", ref: SubmodelReference("x"), wantProblems: 0},
		{name: "Nil", ref: nil, wantProblems: 1, wantSubstring: "nil"},
		{name: "Empty", ref: NewModelReference(), wantProblems: 1, wantSubstring: "no keys"},
		{
			name:          "External",
			ref:           &Reference{Type: ReferenceTypeExternal, Keys: []Key{NewKey(KeyTypeGlobalReference, "https://x")}},
			wantProblems:  2,
			wantSubstring: "external",
		},
		{
			name:          "RootNotIdentifiable",
			ref:           NewModelReference(NewKey(KeyTypeSubmodelElement, "leaf")),
			wantProblems:  1,
			wantSubstring: "key 0 has type SubmodelElement",
		},
		{
			name:          "RootWithoutValue",
			ref:           NewModelReference(Key{Type: KeyTypeSubmodel}),
			wantProblems:  1,
			wantSubstring: "key 0 has no value",
		},
		{
			name: "IdentifiableBelowRoot",
			ref: NewModelReference(
				NewKey(KeyTypeSubmodel, "x"),
				NewKey(KeyTypeConceptDescription, "cd"),
			),
			wantProblems:  1,
			wantSubstring: "only allowed at position 0",
		},
		{
			name: "UnsupportedKeyType",
			ref: NewModelReference(
				NewKey(KeyTypeSubmodel, "x"),
				NewKey(KeyTypeFragmentReference, "frag"),
			),
			wantProblems:  1,
			wantSubstring: "unsupported type FragmentReference",
		},
		{
			name: "MissingKeyType",
			ref: NewModelReference(
				NewKey(KeyTypeSubmodel, "x"),
				Key{Value: strPtr("y")},
			),
			wantProblems:  1,
			wantSubstring: "key 1 has no type",
		},
		{
			name: "NilValueOutsideList",
			ref: NewModelReference(
				NewKey(KeyTypeSubmodel, "x"),
				NewKey(KeyTypeSubmodelElementCollection, "coll"),
				Key{Type: KeyTypeProperty},
			),
			wantProblems:  1,
			wantSubstring: "its parent is not a SubmodelElementList",
		},
		{
			name: "NilValueInsideList",
			ref: NewModelReference(
				NewKey(KeyTypeSubmodel, "x"),
				NewKey(KeyTypeSubmodelElementList, "list"),
				Key{Type: KeyTypeProperty},
			),
			wantProblems: 0,
		},
		{
			name:          "MissingReferenceType",
			ref:           &Reference{Keys: []Key{NewKey(KeyTypeSubmodel, "x")}},
			wantProblems:  1,
			wantSubstring: "reference type is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(tt.ref)
			assert.Len(t, problems, tt.wantProblems, "problems: %v", problems)
			if tt.wantSubstring != "" {
				assert.Contains(t, problems[0]+problems[len(problems)-1], tt.wantSubstring)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	t.Parallel()

	ref := NewModelReference(
		Key{Type: KeyTypeSubmodel},
		NewKey(KeyTypeAssetAdministrationShell, "shell"),
		Key{Type: KeyTypeProperty},
	)

	problems := Validate(ref)
	require.Len(t, problems, 3)
	assert.Equal(t, "key 0 has no value", problems[0])
	assert.Contains(t, problems[1], "only allowed at position 0")
	assert.Contains(t, problems[2], "key 2 has no value")
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	refs := []*Reference{
		SubmodelReference("sm-1"),
		ShellReference("https://example.com/aas/1"),
		NewModelReference(
			NewKey(KeyTypeSubmodel, "sm-1"),
			NewKey(KeyTypeSubmodelElementList, "list"),
			Key{Type: KeyTypeProperty},
			NewKey(KeyTypeOperation, "op"),
		),
	}

	for _, ref := range refs {
		t.Run(ref.String(), func(t *testing.T) {
			serialized, err := Serialize(ref)
			require.NoError(t, err)

			parsed, err := ParseReference(serialized)
			require.NoError(t, err)
			assert.True(t, Equal(ref, parsed), "expected %s, got %s", ref, parsed)
		})
	}
}

func TestSerializeFormat(t *testing.T) {
	t.Parallel()

	serialized, err := Serialize(SubmodelReference("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ModelReference","keys":[{"type":"Submodel","value":"x"}]}`, serialized)
}

func TestParseReferenceErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"not json",
		`{"type":"Nonsense","keys":[]}`,
		`{"type":"ModelReference","keys":[{"type":"Banana","value":"x"}]}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, input, parseErr.Input)
		})
	}
}

func TestElementReferenceDoesNotMutateParent(t *testing.T) {
	t.Parallel()

	parent := SubmodelReference("sm-1")
	child := ElementReference(parent, KeyTypeProperty, "p")

	assert.Len(t, parent.Keys, 1)
	assert.Len(t, child.Keys, 2)
	assert.Equal(t, "p", IDShortPath(child))
	assert.Equal(t, "", IDShortPath(parent))
}

func TestSDKConversion(t *testing.T) {
	t.Parallel()

	sdkRef := types.NewReference(
		types.ReferenceTypesModelReference,
		[]types.IKey{
			types.NewKey(types.KeyTypesSubmodel, "sm-1"),
			types.NewKey(types.KeyTypesSubmodelElementCollection, "coll"),
		},
	)

	ref, err := FromSDK(sdkRef)
	require.NoError(t, err)
	assert.True(t, Equal(ref, ElementReference(SubmodelReference("sm-1"), KeyTypeSubmodelElementCollection, "coll")))

	back, err := ToSDK(ref)
	require.NoError(t, err)
	require.Len(t, back.Keys(), 2)
	assert.Equal(t, types.KeyTypesSubmodelElementCollection, back.Keys()[1].Type())
	assert.Equal(t, "coll", back.Keys()[1].Value())

	_, err = ToSDK(NewModelReference(NewKey(KeyTypeSubmodel, "x"), NewKey(KeyTypeSubmodelElementList, "l"), Key{Type: KeyTypeProperty}))
	assert.Error(t, err)
}
