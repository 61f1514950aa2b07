package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// errBadRequest marks path or query parameters that failed to parse.
var errBadRequest = errors.New("bad request")

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	bridge, err := bridgeParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, found, err := s.querier.Bridge(r.Context(), bridge)
	s.respond(w, entry, found, err)
}

func (s *Server) handleBlockchain(w http.ResponseWriter, r *http.Request) {
	bridge, err := bridgeParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	chain, err := chainParam(r, "chain")
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, found, err := s.querier.Blockchain(r.Context(), bridge, chain)
	s.respond(w, entry, found, err)
}

func (s *Server) handleValidators(w http.ResponseWriter, r *http.Request) {
	bridge, err := bridgeParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	chain, err := chainParam(r, "chain")
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries, found, err := s.querier.Validators(r.Context(), bridge, chain)
	s.respond(w, entries, found, err)
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	bridge, source, txID, revert, err := lockParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, found, err := s.querier.Lock(r.Context(), bridge, source, txID, revert)
	s.respond(w, entry, found, err)
}

func (s *Server) handleSignatures(w http.ResponseWriter, r *http.Request) {
	bridge, source, txID, revert, err := lockParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries, found, err := s.querier.Signatures(r.Context(), bridge, source, txID, revert)
	s.respond(w, entries, found, err)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	chain, address, err := userParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, found, err := s.querier.User(r.Context(), chain, address)
	s.respond(w, entry, found, err)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	chain, address, err := userParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	kind := types.LegKind(mux.Vars(r)["kind"])
	items, err := s.querier.History(r.Context(), kind, chain, address)
	s.respond(w, items, true, err)
}

func (s *Server) respond(w http.ResponseWriter, data interface{}, found bool, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, QueryResponse{Data: data, QueriedAt: time.Now().UTC()})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, types.ErrCodec),
		errors.Is(err, types.ErrInvalidArgument), errors.Is(err, types.ErrInvalidSeeds):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidAccountOwner):
		status = http.StatusConflict
	default:
		s.logger.Error().Err(err).Msg("Query failed")
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func bridgeParam(r *http.Request) (solana.PublicKey, error) {
	raw := mux.Vars(r)["bridge"]
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, errorsmod.Wrapf(errBadRequest, "bridge %q: %v", raw, err)
	}
	return key, nil
}

func chainParam(r *http.Request, name string) (types.ChainID, error) {
	chain, err := types.ParseChainID(mux.Vars(r)[name])
	if err != nil {
		return types.ChainID{}, errorsmod.Wrap(errBadRequest, err.Error())
	}
	return chain, nil
}

func lockParams(r *http.Request) (bridge solana.PublicKey, source types.ChainID, txID types.TxID, revert bool, err error) {
	if bridge, err = bridgeParam(r); err != nil {
		return
	}
	if source, err = chainParam(r, "source"); err != nil {
		return
	}
	if txID, err = types.TxIDFromHex(mux.Vars(r)["tx_id"]); err != nil {
		err = errorsmod.Wrap(errBadRequest, err.Error())
		return
	}
	if raw := r.URL.Query().Get("revert"); raw != "" {
		if revert, err = strconv.ParseBool(raw); err != nil {
			err = errorsmod.Wrapf(errBadRequest, "revert %q is not a boolean", raw)
		}
	}
	return
}

func userParams(r *http.Request) (types.ChainID, types.Address, error) {
	chain, err := chainParam(r, "chain")
	if err != nil {
		return types.ChainID{}, types.Address{}, err
	}
	address, err := types.AddressFromHex(mux.Vars(r)["address"])
	if err != nil {
		return types.ChainID{}, types.Address{}, errorsmod.Wrap(errBadRequest, err.Error())
	}
	return chain, address, nil
}
