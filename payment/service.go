// Package payment is the operator-facing entry point. It gathers wallet state
// from the network boundary, runs a build and keeps a journal of every
// outcome so that successful builds can be signed and submitted later.
package payment

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/journal"
	"github.com/bitfsorg/paybuild-go/mode"
	"github.com/bitfsorg/paybuild-go/network"
	"github.com/bitfsorg/paybuild-go/selection"
	"github.com/bitfsorg/paybuild-go/tx"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// PaymentRequest is a build request as the operator states it. Wallet state
// is fetched by the service.
type PaymentRequest struct {
	Intent        mode.Intent
	Strategy      selection.Strategy
	Destination   string
	ChangeAddress string // empty asks the wallet
	TTLOverride   uint64
	TTLOffset     uint64
}

// Receipt is a journaled build outcome.
type Receipt struct {
	ID     string          `json:"id,omitempty"` // empty without a journal
	Result *tx.BuildResult `json:"result"`
}

// Service builds payments against a wallet.
type Service struct {
	Wallet  network.WalletService
	Params  network.ParamsProvider
	Journal journal.Store // optional
	Builder *mode.Builder
	Session *Session

	now func() time.Time
}

// NewService creates a Service with an empty session.
func NewService(wallet network.WalletService, params network.ParamsProvider, store journal.Store) *Service {
	return &Service{
		Wallet:  wallet,
		Params:  params,
		Journal: store,
		Builder: mode.NewBuilder(),
		Session: NewSession(),
		now:     time.Now,
	}
}

// walletState is what a build needs from the boundary.
type walletState struct {
	utxos  []utxo.UTXO
	params *fee.ProtocolParameters
	change string
}

// fetch queries the wallet and the parameter provider concurrently. Any
// failure is a parameter fetch failure; there is no retry.
func (s *Service) fetch(ctx context.Context, needChange bool) (*walletState, error) {
	var st walletState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utxos, err := s.Wallet.ListUnspent(gctx)
		if err != nil {
			return fmt.Errorf("%w: list unspent: %w", tx.ErrParameterFetch, err)
		}
		st.utxos = utxos
		return nil
	})
	g.Go(func() error {
		params, err := s.Params.ProtocolParameters(gctx)
		if err != nil {
			return fmt.Errorf("%w: protocol parameters: %w", tx.ErrParameterFetch, err)
		}
		st.params = params
		return nil
	})
	if needChange {
		g.Go(func() error {
			addr, err := s.Wallet.ChangeAddress(gctx)
			if err != nil {
				return fmt.Errorf("%w: change address: %w", tx.ErrParameterFetch, err)
			}
			st.change = addr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

// Build fetches wallet state, builds the payment and journals the outcome.
// A failed build is reported in the receipt's result, not as an error; the
// error return is reserved for invalid calls and journal failures.
func (s *Service) Build(ctx context.Context, req *PaymentRequest) (*Receipt, error) {
	if req == nil || mode.Resolve(req.Intent) == nil {
		return nil, fmt.Errorf("%w: request", ErrNilParam)
	}
	if s.Wallet == nil || s.Params == nil {
		return nil, fmt.Errorf("%w: wallet or params provider", ErrNilParam)
	}
	kind := mode.Resolve(req.Intent).Kind()
	logger := log.WithFields(log.Fields{
		"mode":     kind,
		"strategy": req.Strategy.String(),
	})

	res, err := s.build(ctx, req)
	if err != nil {
		res = tx.Failed(err)
		res.Mode = string(kind)
		f := logger.WithField("kind", res.Failure.Kind)
		if res.Failure.Kind.UserFacing() {
			f.Info(res.Failure.Message)
		} else {
			f.WithError(err).Error("build failed")
		}
	} else {
		logger.WithFields(log.Fields{
			"tx_hash": res.TxHash,
			"fee":     res.Fee,
			"inputs":  len(res.Inputs),
		}).Info("build succeeded")
	}

	receipt := &Receipt{Result: res}
	if s.Journal == nil {
		return receipt, nil
	}
	receipt.ID = journal.NewID()
	if err := s.Journal.Put(journal.NewRecord(receipt.ID, s.clock(), string(kind), res)); err != nil {
		return nil, fmt.Errorf("payment: journal build: %w", err)
	}
	return receipt, nil
}

func (s *Service) build(ctx context.Context, req *PaymentRequest) (*tx.BuildResult, error) {
	needChange := req.ChangeAddress == "" && mode.Resolve(req.Intent).Kind() != mode.KindSweep

	st, err := s.fetch(ctx, needChange)
	if err != nil {
		return nil, err
	}
	change := req.ChangeAddress
	if needChange {
		change = st.change
	}

	var selected []utxo.UTXO
	if s.Session != nil {
		selected = s.Session.Selected()
	}
	builder := s.Builder
	if builder == nil {
		builder = mode.NewBuilder()
	}
	return builder.Build(&mode.Request{
		Intent:          req.Intent,
		Strategy:        req.Strategy,
		Destination:     req.Destination,
		ChangeAddress:   change,
		Available:       st.utxos,
		AlreadySelected: selected,
		Params:          st.params,
		TTLOverride:     req.TTLOverride,
		TTLOffset:       req.TTLOffset,
	})
}

// SignAndSubmit signs the journaled transaction with the wallet, submits it
// and records the hash it was accepted under.
func (s *Service) SignAndSubmit(ctx context.Context, id string) (string, error) {
	if s.Journal == nil {
		return "", ErrNoJournal
	}
	if s.Wallet == nil {
		return "", fmt.Errorf("%w: wallet", ErrNilParam)
	}
	rec, err := s.Journal.Get(id)
	if err != nil {
		return "", err
	}
	if err := rec.Submittable(); err != nil {
		return "", fmt.Errorf("%w: %s", err, id)
	}

	witnesses, err := s.Wallet.SignTx(ctx, rec.TxHex)
	if err != nil {
		return "", fmt.Errorf("payment: sign: %w", err)
	}
	signed, err := tx.AttachWitnesses(rec.TxHex, witnesses)
	if err != nil {
		return "", err
	}
	hash, err := s.Wallet.SubmitTx(ctx, signed)
	if err != nil {
		return "", fmt.Errorf("payment: submit: %w", err)
	}

	logger := log.WithFields(log.Fields{"id": id, "tx_hash": hash})
	if hash != rec.TxHash {
		logger.WithField("expected", rec.TxHash).Warn("submitted hash differs from built hash")
	}
	if err := s.Journal.MarkSubmitted(id, hash, s.clock()); err != nil {
		return "", fmt.Errorf("payment: journal submit: %w", err)
	}
	logger.Info("transaction submitted")
	return hash, nil
}

// SelectRefs adds the wallet outputs named by refs to the session. Either all
// refs are selected or none are.
func (s *Service) SelectRefs(ctx context.Context, refs ...string) (int, error) {
	if s.Wallet == nil || s.Session == nil {
		return 0, fmt.Errorf("%w: wallet or session", ErrNilParam)
	}
	utxos, err := s.Wallet.ListUnspent(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list unspent: %w", tx.ErrParameterFetch, err)
	}
	picked := make([]utxo.UTXO, 0, len(refs))
	for _, ref := range refs {
		hash, idx, err := utxo.ParseRef(ref)
		if err != nil {
			return 0, err
		}
		i := slices.IndexFunc(utxos, func(u utxo.UTXO) bool {
			return u.OutputIndex == idx && strings.EqualFold(u.TxHash, hash)
		})
		if i < 0 {
			return 0, fmt.Errorf("%w: %s", ErrUnknownRef, ref)
		}
		picked = append(picked, utxos[i])
	}
	return s.Session.Select(picked...), nil
}

// Analyze reports statistics over the wallet's current outputs.
func (s *Service) Analyze(ctx context.Context) (utxo.Stats, error) {
	if s.Wallet == nil {
		return utxo.Stats{}, fmt.Errorf("%w: wallet", ErrNilParam)
	}
	utxos, err := s.Wallet.ListUnspent(ctx)
	if err != nil {
		return utxo.Stats{}, fmt.Errorf("%w: list unspent: %w", tx.ErrParameterFetch, err)
	}
	return utxo.Analyze(utxos)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
