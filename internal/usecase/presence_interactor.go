package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/GoArmGo/PasteApp/internal/core/ports"
	"github.com/google/uuid"
)

const (
	presenceSampleSize = 20
	presenceMinOnline  = 5
	presenceMaxOnline  = 10
)

type presenceUseCase struct {
	profiles ports.ProfileStorage
	store    ports.PresenceStore
	logger   *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPresenceUseCase(profiles ports.ProfileStorage, store ports.PresenceStore, logger *slog.Logger) PresenceUseCase {
	seed := uint64(time.Now().UnixNano())
	return newPresenceUseCase(profiles, store, logger, rand.New(rand.NewPCG(seed, seed>>1)))
}

func newPresenceUseCase(profiles ports.ProfileStorage, store ports.PresenceStore, logger *slog.Logger, rnd *rand.Rand) *presenceUseCase {
	return &presenceUseCase{profiles: profiles, store: store, logger: logger, rnd: rnd}
}

// Sample берет до 20 id профилей, перемешивает и оставляет случайные 5..10.
func (uc *presenceUseCase) Sample(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := uc.profiles.ListProfileIDs(ctx, presenceSampleSize)
	if err != nil {
		return nil, fmt.Errorf("usecase: sample profiles: %w", err)
	}

	uc.mu.Lock()
	uc.rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	n := presenceMinOnline + uc.rnd.IntN(presenceMaxOnline-presenceMinOnline+1)
	uc.mu.Unlock()

	if n < len(ids) {
		ids = ids[:n]
	}

	if err := uc.store.SaveOnline(ctx, ids); err != nil {
		return nil, fmt.Errorf("usecase: save presence: %w", err)
	}
	return ids, nil
}

// Run делает выборку сразу и затем по тикеру. Ошибки логируются,
// в хранилище остается предыдущий снимок.
func (uc *presenceUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.sampleAndLog(ctx)
	for {
		select {
		case <-ticker.C:
			uc.sampleAndLog(ctx)
		case <-ctx.Done():
			uc.logger.Info("presence poller stopped")
			return
		}
	}
}

func (uc *presenceUseCase) sampleAndLog(ctx context.Context) {
	ids, err := uc.Sample(ctx)
	if err != nil {
		uc.logger.Error("presence sampling failed", "error", err)
		return
	}
	uc.logger.Debug("presence sampled", "online", len(ids))
}

func (uc *presenceUseCase) Online(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := uc.store.LoadOnline(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: load presence: %w", err)
	}
	return ids, nil
}
