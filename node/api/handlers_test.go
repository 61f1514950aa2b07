package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allbridge-io/allbridge-master-contract/testutils"
)

type fixture struct {
	ledger   *testutils.Ledger
	scenario testutils.Scenario
	server   *Server
}

func setupFixture(t *testing.T) fixture {
	ledger := testutils.SetupLedger(t)
	scenario := ledger.SetupScenario(t)
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return fixture{
		ledger:   ledger,
		scenario: scenario,
		server:   NewServer(logger, 0, ledger.Querier, ledger.Registry),
	}
}

func (f fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestHandleHealth(t *testing.T) {
	f := setupFixture(t)
	w := f.get(t, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHandleBridge(t *testing.T) {
	f := setupFixture(t)

	t.Run("found", func(t *testing.T) {
		w := f.get(t, "/api/v1/bridges/"+f.scenario.Bridge.String())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		data := decodeData(t, w)
		assert.Equal(t, f.scenario.Bridge.String(), data["address"])
		record := data["record"].(map[string]interface{})
		assert.Equal(t, f.scenario.Owner.PublicKey().String(), record["owner"])
	})

	t.Run("unknown bridge", func(t *testing.T) {
		w := f.get(t, "/api/v1/bridges/"+testutils.NewKey(t).PublicKey().String())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed key", func(t *testing.T) {
		w := f.get(t, "/api/v1/bridges/not-base58!")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "not-base58!")
	})
}

func TestHandleBlockchainAndValidators(t *testing.T) {
	f := setupFixture(t)
	base := "/api/v1/bridges/" + f.scenario.Bridge.String() + "/blockchains/"

	w := f.get(t, base+testutils.ChainETH)
	require.Equal(t, http.StatusOK, w.Code)
	record := decodeData(t, w)["record"].(map[string]interface{})
	assert.Equal(t, testutils.ChainETH, record["blockchain_id"])
	assert.EqualValues(t, 1, record["validators"])

	w = f.get(t, base+testutils.ChainETH+"/validators")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	validator := resp.Data[0]["record"].(map[string]interface{})
	assert.Equal(t, f.scenario.ETHValidator.PublicKey().String(), validator["owner"])

	assert.Equal(t, http.StatusNotFound, f.get(t, base+testutils.ChainBSC).Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, base+"TOOLONG").Code)
}

func TestHandleLockSignaturesAndHistory(t *testing.T) {
	f := setupFixture(t)
	txID := testutils.TxIDOf(7)
	msg := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, txID, 0, 500)
	require.NoError(t, f.ledger.AddSignature(f.scenario.Bridge, f.scenario.ETHValidator, 0, msg))

	lockPath := "/api/v1/bridges/" + f.scenario.Bridge.String() + "/locks/" + testutils.ChainETH + "/" + txID.String()

	w := f.get(t, lockPath)
	require.Equal(t, http.StatusOK, w.Code)
	record := decodeData(t, w)["record"].(map[string]interface{})
	assert.EqualValues(t, 500, record["amount"])
	assert.EqualValues(t, 1, record["signatures"])

	assert.Equal(t, http.StatusNotFound, f.get(t, lockPath+"?revert=true").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, lockPath+"?revert=maybe").Code)

	w = f.get(t, lockPath+"/signatures")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"signature":`))

	userPath := "/api/v1/users/" + testutils.ChainETH + "/" + testutils.SenderAddress.String()
	w = f.get(t, userPath)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeData(t, w)["record"].(map[string]interface{})
	assert.EqualValues(t, 1, user["sent"])

	w = f.get(t, userPath+"/sent")
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Data, 1)
	assert.NotNil(t, history.Data[0]["lock"])

	recvPath := "/api/v1/users/" + testutils.ChainSOL + "/" + testutils.RecipientAddress.String() + "/received"
	w = f.get(t, recvPath)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Data, 1)

	assert.Equal(t, http.StatusNotFound, f.get(t, userPath+"/bogus").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/users/ETH/0x1234").Code)
}

func TestHandleMetrics(t *testing.T) {
	f := setupFixture(t)
	w := f.get(t, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bridged_")
}
