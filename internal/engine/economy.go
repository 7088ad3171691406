package engine

import (
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

// AdjustStats applies a signed coin/XP correction to a child. Results are
// clamped at zero rather than rejected, and the level is recomputed from the
// new XP. An unknown child id is a no-op.
func AdjustStats(s model.AppState, childID string, coinsDelta, xpDelta int, now time.Time) model.AppState {
	ki := s.ChildByID(childID)
	if ki < 0 {
		return s
	}
	child := s.Children[ki]

	out := s.Clone()
	out.Children[ki].Coins = clampZero(child.Coins + coinsDelta)
	out.Children[ki].XP = clampZero(child.XP + xpDelta)
	out.Children[ki].Level = model.Level(out.Children[ki].XP)

	return AppendLog(out, child.Name, "FIELD CORRECTION", model.LogSystem,
		fmt.Sprintf("Adj: %s Credits, %s XP", signed(coinsDelta), signed(xpDelta)), now)
}

// ClaimReward debits the reward's cost from the child. A claim the child
// cannot afford fails with ErrInsufficientCoins and no state change, and
// writes no log entry. Reward claims never affect XP.
func ClaimReward(s model.AppState, rewardID, childID string, now time.Time) (model.AppState, error) {
	ri := s.RewardByID(rewardID)
	ki := s.ChildByID(childID)
	if ri < 0 || ki < 0 {
		return s, ErrNotFound
	}
	reward := s.Rewards[ri]
	child := s.Children[ki]
	if child.Coins < reward.Cost {
		return s, ErrInsufficientCoins
	}

	out := s.Clone()
	out.Children[ki].Coins = child.Coins - reward.Cost
	out = AppendLog(out, child.Name,
		fmt.Sprintf("Asset Acquired: %s", reward.Title),
		model.LogReward,
		fmt.Sprintf("-%d Credits", reward.Cost), now)
	return out, nil
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func signed(v int) string {
	if v >= 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
