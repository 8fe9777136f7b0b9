// README: Honeycomb-accelerated candidate driver search: origin cell plus
// k-ring neighbors instead of a full online-driver scan.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/settings"
	"honeycomb/internal/types"
)

// MembershipReader fetches driver membership sets for a batch of cells in
// one round trip; results align positionally with the input cells.
type MembershipReader interface {
	Members(ctx context.Context, zoneID string, cellIDs []hex.CellID) ([][]types.ID, error)
}

// SettingsResolver yields the effective zone settings; nil means disabled.
type SettingsResolver interface {
	Resolve(ctx context.Context, zoneID string) *settings.ZoneSettings
}

type Service struct {
	members  MembershipReader
	settings SettingsResolver
	log      *zap.Logger
}

func NewService(members MembershipReader, resolver SettingsResolver, log *zap.Logger) *Service {
	return &Service{members: members, settings: resolver, log: log}
}

// CandidateDrivers returns the deduplicated union of driver IDs from the
// pickup point's cell and its k-ring neighbors. An empty result with
// honeycomb disabled (or the store unreachable) is the explicit signal for
// the caller to fall back to an unaccelerated scan.
//
// The category parameter is advisory: membership sets are category-agnostic
// (categories live in the supply counters), so filtering is the caller's
// responsibility. Purely read-side; safe to call concurrently.
func (s *Service) CandidateDrivers(ctx context.Context, pickupLat, pickupLng float64, zoneID, category string) []types.ID {
	st := s.settings.Resolve(ctx, zoneID)
	if !st.DispatchActive() {
		return nil
	}

	origin := hex.Encode(pickupLat, pickupLng, st.Resolution)
	searchCells := hex.Ring(origin, st.SearchDepthK)

	sets, err := s.members.Members(ctx, zoneID, searchCells)
	if err != nil {
		s.log.Warn("candidate membership read failed, falling back",
			zap.String("zone_id", zoneID), zap.Error(err))
		return nil
	}

	seen := make(map[types.ID]struct{})
	var candidates []types.ID
	for _, set := range sets {
		for _, id := range set {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}

	s.log.Info("honeycomb candidate search",
		zap.Float64("pickup_lat", pickupLat),
		zap.Float64("pickup_lng", pickupLng),
		zap.String("origin_cell", string(origin)),
		zap.Int("cells_searched", len(searchCells)),
		zap.Int("candidates_found", len(candidates)),
		zap.String("zone_id", zoneID),
		zap.String("category", category),
	)
	return candidates
}
