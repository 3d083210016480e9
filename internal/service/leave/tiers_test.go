package leave

import (
	"context"
	"fmt"
	"testing"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sickTiers() []leave.LeaveBalanceTier {
	return []leave.LeaveBalanceTier{
		{TierNumber: 1, TierName: "Full pay", DaysAllowed: d("15"), PayPercentage: 100},
		{TierNumber: 2, TierName: "Three-quarter pay", DaysAllowed: d("20"), PayPercentage: 75},
		{TierNumber: 3, TierName: "Half pay", DaysAllowed: d("20"), PayPercentage: 50},
	}
}

func TestTiersFromRules(t *testing.T) {
	rules := []leave.TierRule{
		{TierNumber: 2, TierName: "B", DaysAllowed: d("20"), PayPercentage: 75},
		{TierNumber: 1, TierName: "A", DaysAllowed: d("15"), PayPercentage: 100},
	}

	tiers, err := tiersFromRules("bal-1", rules)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, 1, tiers[0].TierNumber)
	assert.Equal(t, "A", tiers[0].TierName)
	assert.Equal(t, "bal-1", tiers[1].BalanceID)
}

func TestTiersFromRulesRejectsGapsAndZeroDays(t *testing.T) {
	_, err := tiersFromRules("bal-1", []leave.TierRule{
		{TierNumber: 1, DaysAllowed: d("15")},
		{TierNumber: 3, DaysAllowed: d("20")},
	})
	assert.ErrorIs(t, err, leave.ErrBadTierConfig)

	_, err = tiersFromRules("bal-1", []leave.TierRule{
		{TierNumber: 1, DaysAllowed: d("0")},
	})
	assert.ErrorIs(t, err, leave.ErrBadTierConfig)

	_, err = tiersFromRules("bal-1", nil)
	assert.ErrorIs(t, err, leave.ErrBadTierConfig)
}

func TestAllocateTierFirstWithRemaining(t *testing.T) {
	tiers := sickTiers()

	tier, err := allocateTier(tiers, d("10"))
	require.NoError(t, err)
	assert.Equal(t, 1, tier.TierNumber)

	tiers[0].DaysUsed = d("15")
	tier, err = allocateTier(tiers, d("10"))
	require.NoError(t, err)
	assert.Equal(t, 2, tier.TierNumber)
}

func TestAllocateTierRejectsStraddle(t *testing.T) {
	tiers := sickTiers()
	tiers[0].DaysUsed = d("10")

	// 5 days remain in tier 1; a 7-day request must not span into tier 2.
	_, err := allocateTier(tiers, d("7"))
	assert.ErrorIs(t, err, leave.ErrTierStraddle)

	tier, err := allocateTier(tiers, d("5"))
	require.NoError(t, err)
	assert.Equal(t, 1, tier.TierNumber)
}

func TestAllocateTierExhausted(t *testing.T) {
	tiers := sickTiers()
	tiers[0].DaysUsed = d("15")
	tiers[1].DaysUsed = d("20")
	tiers[2].DaysUsed = d("20")

	_, err := allocateTier(tiers, d("1"))
	assert.ErrorIs(t, err, leave.ErrTiersExhausted)
}

type fakeBalanceRepo struct {
	leave.LeaveBalanceRepository
	balance         *leave.LeaveBalance
	tiers           []leave.LeaveBalanceTier
	createTierCalls int
	updatedTiers    []leave.LeaveBalanceTier
}

func (f *fakeBalanceRepo) GetForYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	return f.balance, nil
}

func (f *fakeBalanceRepo) ListTiers(ctx context.Context, balanceID string) ([]leave.LeaveBalanceTier, error) {
	return f.tiers, nil
}

func (f *fakeBalanceRepo) CreateTier(ctx context.Context, tier leave.LeaveBalanceTier) (leave.LeaveBalanceTier, error) {
	f.createTierCalls++
	tier.ID = fmt.Sprintf("tier-%d", f.createTierCalls)
	f.tiers = append(f.tiers, tier)
	return tier, nil
}

func (f *fakeBalanceRepo) UpdateTier(ctx context.Context, tier leave.LeaveBalanceTier) error {
	f.updatedTiers = append(f.updatedTiers, tier)
	return nil
}

func tieredSickType() leave.LeaveType {
	return leave.LeaveType{
		ID: "lt-sick", Code: leave.CodeSick,
		BalanceCalculation: leave.BalanceTiered,
		Rules: leave.ValidationRules{Tiers: []leave.TierRule{
			{TierNumber: 1, TierName: "Full pay", DaysAllowed: d("15"), PayPercentage: 100},
			{TierNumber: 2, TierName: "Three-quarter pay", DaysAllowed: d("20"), PayPercentage: 75},
		}},
	}
}

func TestTiersForReadPathDoesNotPersist(t *testing.T) {
	repo := &fakeBalanceRepo{balance: &leave.LeaveBalance{ID: "bal-1"}}
	svc := &LeaveServiceImpl{LeaveBalanceRepository: repo}

	// Checking a tiered balance before any consumption must not write
	// tier rows.
	tiers, err := svc.tiersFor(context.Background(), "emp-1", tieredSickType(), 2025)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Zero(t, repo.createTierCalls)
	assert.Empty(t, repo.updatedTiers)

	_, err = allocateTier(tiers, d("10"))
	assert.NoError(t, err)
}

func TestConsumeTierMaterializesOnFirstUse(t *testing.T) {
	repo := &fakeBalanceRepo{balance: &leave.LeaveBalance{ID: "bal-1"}}
	svc := &LeaveServiceImpl{LeaveBalanceRepository: repo}

	require.NoError(t, svc.consumeTier(context.Background(), "emp-1", tieredSickType(), 2025, d("10")))
	assert.Equal(t, 2, repo.createTierCalls)
	require.Len(t, repo.updatedTiers, 1)
	assert.Equal(t, 1, repo.updatedTiers[0].TierNumber)
	assert.True(t, repo.updatedTiers[0].DaysUsed.Equal(d("10")))

	// A second consumption reuses the stored rows.
	require.NoError(t, svc.consumeTier(context.Background(), "emp-1", tieredSickType(), 2025, d("5")))
	assert.Equal(t, 2, repo.createTierCalls)
}

func TestReleaseTiersUnwindsInReverse(t *testing.T) {
	tiers := sickTiers()
	tiers[0].DaysUsed = d("15")
	tiers[1].DaysUsed = d("5")

	changed := releaseTiers(tiers, d("8"))
	require.Len(t, changed, 2)

	// Tier 2 gives back its 5 used days first, tier 1 the remaining 3.
	assert.Equal(t, 2, changed[0].TierNumber)
	assert.True(t, changed[0].DaysUsed.IsZero())
	assert.Equal(t, 1, changed[1].TierNumber)
	assert.True(t, changed[1].DaysUsed.Equal(d("12")))
}
