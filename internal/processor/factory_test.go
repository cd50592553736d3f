package processor

import (
	"errors"
	"net/http"
	"testing"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorFor(t *testing.T) {
	t.Parallel()

	registry, err := provider.NewRegistry([]common.ProviderConfig{{URL: "https://aas.example.com/api"}})
	require.NoError(t, err)

	strict := NewFactory(http.DefaultClient, registry, false)

	p, registered, err := strict.ProcessorFor("https://aas.example.com/api/submodels/c20tMQ==")
	require.NoError(t, err)
	assert.NotNil(t, p)
	require.NotNil(t, registered)
	assert.Equal(t, "https://aas.example.com/api", registered.BaseURL())

	_, _, err = strict.ProcessorFor("https://other.example.com")
	assert.True(t, errors.Is(err, ErrUnregisteredService))

	_, _, err = strict.ProcessorFor("not a url")
	assert.True(t, errors.Is(err, ErrMalformedURL))
	assert.True(t, common.IsErrBadRequest(err))

	open := NewFactory(http.DefaultClient, nil, true)
	p, registered, err = open.ProcessorFor("https://other.example.com")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Nil(t, registered)
}
