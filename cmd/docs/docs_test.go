package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocListsRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	for path, method := range map[string]string{
		"/temples":                                              "post",
		"/temples/{templeID}/entries":                           "post",
		"/temples/{templeID}/entries/{entryID}/reverse":         "post",
		"/temples/{templeID}/reports/trial-balance":             "get",
		"/temples/{templeID}/statements/upload":                 "post",
		"/temples/{templeID}/periods/close-year":                "post",
		"/temples/{templeID}/integrity/verify":                  "get",
		"/temples/{templeID}/accounts/{accountID}":              "delete",
		"/temples/{templeID}/statements/{statementID}/complete": "post",
	} {
		ops, ok := doc.Paths[path]
		require.True(t, ok, path)
		assert.Contains(t, ops, method, path)
	}
}
