package dataaddress

import (
	"errors"
	"net/http"
	"testing"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/aasref"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHeaders map[string]string

func (s staticHeaders) Headers() map[string]string { return s }

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	addr, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, TypeAasData, addr.Type())
	assert.Equal(t, http.MethodGet, addr.Method())
	assert.Empty(t, addr.BaseURL())
	assert.Empty(t, addr.AdditionalHeaders())
	assert.False(t, addr.HasProxyOperation())

	ref, err := addr.Reference()
	require.NoError(t, err)
	assert.True(t, ref.IsEmpty())

	_, err = addr.Path()
	assert.True(t, errors.Is(err, ErrNoPath))
}

func TestPathFromReference(t *testing.T) {
	t.Parallel()

	addr, err := NewBuilder().
		BaseURL("https://aas.example.com").
		Reference(aasref.SubmodelReference("sm-1")).
		Build()
	require.NoError(t, err)

	path, err := addr.Path()
	require.NoError(t, err)
	assert.Equal(t, "submodels/c20tMQ==", path)

	ref, err := addr.Reference()
	require.NoError(t, err)
	assert.True(t, aasref.Equal(aasref.SubmodelReference("sm-1"), ref))
}

func TestExplicitPathTakesPrecedence(t *testing.T) {
	t.Parallel()

	addr, err := NewBuilder().
		Reference(aasref.SubmodelReference("sm-1")).
		Path("/custom/path").
		Build()
	require.NoError(t, err)

	path, err := addr.Path()
	require.NoError(t, err)
	assert.Equal(t, "/custom/path", path)
	assert.True(t, addr.HasExplicitPath())
}

func TestMalformedReferenceFailsBuild(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder().
		Reference(aasref.NewModelReference(aasref.NewKey(aasref.KeyTypeSubmodelElement, "leaf"))).
		Build()
	require.Error(t, err)
	assert.True(t, aasref.IsMalformedReference(err))
	assert.Contains(t, err.Error(), "AASDA-BUILD-INVALID")
}

func TestHeaderPrecedence(t *testing.T) {
	t.Parallel()

	p, err := provider.New("https://aas.example.com/api", provider.APIKey{KeyName: "x-api-key", KeyValue: "from-provider"})
	require.NoError(t, err)

	addr, err := NewBuilder().
		Provider(p).
		AdditionalHeader("x-api-key", "from-address").
		AdditionalHeader("x-trace", "1").
		Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"X-Api-Key": "from-address", "X-Trace": "1"}, addr.AdditionalHeaders())
	assert.Equal(t, "https://aas.example.com/api", addr.BaseURL())

	onlySource, err := NewBuilder().HeaderSource(staticHeaders{"Authorization": "Bearer t"}).Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer t"}, onlySource.AdditionalHeaders())
}

func TestHeaderPrecedenceIgnoresNameCase(t *testing.T) {
	t.Parallel()

	p, err := provider.New("https://aas.example.com", provider.BasicAuth{Username: "u", Password: "p"})
	require.NoError(t, err)

	addr, err := NewBuilder().
		Provider(p).
		AdditionalHeader("authorization", "Bearer local").
		Property(HeaderPrefix+"x-TRACE", "1").
		AdditionalHeaders(map[string]string{"X-trace": "2"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Authorization": "Bearer local", "X-Trace": "2"}, addr.AdditionalHeaders())

	onlySource, err := NewBuilder().HeaderSource(staticHeaders{"x-api-key": "k"}).Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-Api-Key": "k"}, onlySource.AdditionalHeaders())
}

func TestBuiltAddressIsImmutable(t *testing.T) {
	t.Parallel()

	b := NewBuilder().AdditionalHeader("a", "1")
	first, err := b.Build()
	require.NoError(t, err)

	b.AdditionalHeader("b", "2").Method(http.MethodPut)
	assert.Equal(t, map[string]string{"A": "1"}, first.AdditionalHeaders())
	assert.Equal(t, http.MethodGet, first.Method())
}

func TestProxyOverrides(t *testing.T) {
	t.Parallel()

	addr, err := NewBuilder().
		ProxyMethod(http.MethodPatch).
		ProxyBody(`{"v":1}`).
		ProxyPath("value").
		Build()
	require.NoError(t, err)

	method, ok := addr.ProxyMethod()
	assert.True(t, ok)
	assert.Equal(t, http.MethodPatch, method)
	body, ok := addr.ProxyBody()
	assert.True(t, ok)
	assert.Equal(t, `{"v":1}`, body)
	path, ok := addr.ProxyPath()
	assert.True(t, ok)
	assert.Equal(t, "value", path)
	_, ok = addr.ProxyOperation()
	assert.False(t, ok)

	emptyOp, err := NewBuilder().ProxyOperation("").Build()
	require.NoError(t, err)
	_, ok = emptyOp.ProxyOperation()
	assert.True(t, ok)
	assert.False(t, emptyOp.HasProxyOperation())
}

func TestCopyFrom(t *testing.T) {
	t.Parallel()

	serialized, err := aasref.Serialize(aasref.SubmodelReference("sm-1"))
	require.NoError(t, err)

	generic := DataAddress{
		Type: "HttpData",
		Properties: map[string]any{
			PropertyType:           "HttpData",
			"baseUrl":              "https://aas.example.com",
			PropertyMethod:         "DELETE",
			PropertyReferenceChain: serialized,
			HeaderPrefix + "x-a":   "b",
			"custom:flag":          true,
			"ignored":              nil,
		},
	}

	addr, err := FromDataAddress(generic)
	require.NoError(t, err)

	assert.Equal(t, TypeAasData, addr.Type())
	assert.Equal(t, "https://aas.example.com", addr.BaseURL())
	assert.Equal(t, http.MethodDelete, addr.Method())
	assert.Equal(t, map[string]string{"X-A": "b"}, addr.AdditionalHeaders())

	flag, ok := addr.Extension("custom:flag")
	assert.True(t, ok)
	assert.Equal(t, "true", flag)
	_, ok = addr.Extension("ignored")
	assert.False(t, ok)

	path, err := addr.Path()
	require.NoError(t, err)
	assert.Equal(t, "submodels/c20tMQ==", path)
}

func TestCopyFromPrefersNamespacedKeys(t *testing.T) {
	t.Parallel()

	bag := DataAddress{Properties: map[string]any{
		"path":          "short",
		PropertyPath:    "namespaced",
		"method":        "PUT",
		PropertyMethod:  "POST",
		"baseUrl":       "https://short.example.com",
		PropertyBaseURL: "https://aas.example.com",
	}}

	for range 20 {
		addr, err := FromDataAddress(bag)
		require.NoError(t, err)

		path, err := addr.Path()
		require.NoError(t, err)
		assert.Equal(t, "namespaced", path)
		assert.Equal(t, http.MethodPost, addr.Method())
		assert.Equal(t, "https://aas.example.com", addr.BaseURL())
	}
}

func TestCopyFromRejectsBadReferenceChain(t *testing.T) {
	t.Parallel()

	_, err := FromDataAddress(DataAddress{Properties: map[string]any{PropertyReferenceChain: "not json"}})
	require.Error(t, err)

	var parseErr *aasref.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestToDataAddressRoundTrip(t *testing.T) {
	t.Parallel()

	original, err := NewBuilder().
		BaseURL("https://aas.example.com").
		Method(http.MethodPost).
		Reference(aasref.ElementReference(aasref.SubmodelReference("sm-1"), aasref.KeyTypeOperation, "op")).
		ProxyOperation(`[]`).
		AdditionalHeader("x-a", "b").
		Property("custom:key", "v").
		Build()
	require.NoError(t, err)

	bag := original.ToDataAddress()
	assert.Equal(t, TypeAasData, bag.Type)
	assert.Equal(t, "b", bag.Properties[HeaderPrefix+"X-A"])

	copied, err := FromDataAddress(bag)
	require.NoError(t, err)
	assert.Equal(t, original.ToDataAddress(), copied.ToDataAddress())

	viaAddress, err := NewBuilder().CopyFromAddress(original).Build()
	require.NoError(t, err)
	assert.Equal(t, original.Properties(), viaAddress.Properties())
}

func TestStringPropertyShortName(t *testing.T) {
	t.Parallel()

	d := DataAddress{Properties: map[string]any{"baseUrl": "https://x", "count": 3}}

	v, ok := d.StringProperty(PropertyBaseURL)
	assert.True(t, ok)
	assert.Equal(t, "https://x", v)

	v, ok = d.StringProperty("count")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = DataAddress{}.StringProperty(PropertyBaseURL)
	assert.False(t, ok)
}

func TestAsHTTPDataAddress(t *testing.T) {
	t.Parallel()

	addr, err := NewBuilder().
		BaseURL("https://aas.example.com").
		Reference(aasref.ShellReference("sm-1")).
		AdditionalHeader("x-a", "b").
		Build()
	require.NoError(t, err)

	h, err := addr.AsHTTPDataAddress()
	require.NoError(t, err)
	assert.Equal(t, HTTPDataAddress{
		BaseURL: "https://aas.example.com",
		Method:  http.MethodGet,
		Path:    "shells/c20tMQ==",
		Headers: map[string]string{"X-A": "b"},
	}, h)

	bag := h.ToDataAddress()
	assert.Equal(t, TypeHTTPData, bag.Type)
	assert.Equal(t, "b", bag.Properties["header:X-A"])

	noPath, err := NewBuilder().BaseURL("https://aas.example.com").Build()
	require.NoError(t, err)
	_, err = noPath.AsHTTPDataAddress()
	assert.True(t, errors.Is(err, ErrNoPath))
}

func TestParseAnyHTTPData(t *testing.T) {
	t.Parallel()

	plain := HTTPDataAddress{
		BaseURL: "https://aas.example.com",
		Method:  http.MethodPut,
		Path:    "submodels/c20tMQ==",
		Headers: map[string]string{"Authorization": "Bearer t"},
	}

	addr, err := ParseAny(plain.ToDataAddress())
	require.NoError(t, err)

	assert.Equal(t, "https://aas.example.com", addr.BaseURL())
	assert.Equal(t, http.MethodPut, addr.Method())
	path, err := addr.Path()
	require.NoError(t, err)
	assert.Equal(t, "submodels/c20tMQ==", path)
	assert.Equal(t, map[string]string{"Authorization": "Bearer t"}, addr.AdditionalHeaders())

	aas, err := ParseAny(DataAddress{Type: TypeAasData, Properties: map[string]any{"path": "shells"}})
	require.NoError(t, err)
	path, err = aas.Path()
	require.NoError(t, err)
	assert.Equal(t, "shells", path)
}
