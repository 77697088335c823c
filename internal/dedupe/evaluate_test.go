package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manufacturerFields(name string, productTypes ...string) Fields {
	return Fields{
		FieldName:         Text(name),
		FieldProductTypes: List(productTypes...),
	}
}

func orderFields(manufacturer, product, productType, from, to string, qty float64) Fields {
	return Fields{
		FieldManufacturer: Text(manufacturer),
		FieldProduct:      Text(product),
		FieldProductType:  Text(productType),
		FieldFromLocation: Text(from),
		FieldToLocation:   Text(to),
		FieldQuantity:     Number(qty),
	}
}

func taskFields(title, assignee string, date time.Time) Fields {
	return Fields{
		FieldTitle:      Text(title),
		FieldAssignedTo: Text(assignee),
		FieldDate:       Date(date),
	}
}

func TestBuiltInPoliciesValidate(t *testing.T) {
	th := DefaultThresholds()
	for _, p := range []Policy{ManufacturerPolicy(th), ProductPolicy(th), OrderPolicy(th), TaskPolicy()} {
		require.NoError(t, p.Validate(), p.Entity)
	}
}

func TestPolicyValidateRejectsBadDescriptors(t *testing.T) {
	bad := Policy{Entity: "x", Combinator: "some"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPolicy)

	bad = Policy{Entity: "x", Combinator: All, Clauses: []Clause{{Name: "c", Combinator: All}}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPolicy)

	bad = Policy{Entity: "x", Combinator: All, Clauses: []Clause{{
		Name: "c", Combinator: All,
		Rules: []Rule{{Field: "q", Mode: ModeNumeric}},
	}}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPolicy)
}

func TestManufacturerPolicyNameAloneAboveNameOnlyThreshold(t *testing.T) {
	policy := ManufacturerPolicy(DefaultThresholds())
	existing := manufacturerFields("Nagpur Highway Safety Products Ltd", "Thrie Beam")
	candidate := manufacturerFields("Nagpur Highway Safety Produkts Ltd", "Road Stud")

	score := Similarity("Nagpur Highway Safety Products Ltd", "Nagpur Highway Safety Produkts Ltd")
	require.InDelta(t, 0.97, score, 0.005)

	m := Evaluate(policy, candidate, []Fields{existing})
	require.NotNil(t, m)
	assert.Equal(t, ClauseNameOnly, m.Clause)
	assert.Equal(t, 0, m.Index)
}

func TestManufacturerPolicyBoundaryFallsThrough(t *testing.T) {
	policy := ManufacturerPolicy(DefaultThresholds())
	existing := manufacturerFields("Metro Barrier Works Co", "Thrie Beam")
	candidate := manufacturerFields("Metra Barrier Wurks Ci", "Road Stud")

	score := Similarity("Metro Barrier Works Co", "Metra Barrier Wurks Ci")
	require.Greater(t, score, 0.85)
	require.Less(t, score, 0.95)

	assert.Nil(t, Evaluate(policy, candidate, []Fields{existing}))
}

func TestManufacturerPolicyNameAndProduct(t *testing.T) {
	policy := ManufacturerPolicy(DefaultThresholds())
	existing := manufacturerFields("Metro Barrier Works Co", "Road Stud", "W-Beam")
	candidate := manufacturerFields("Metra Barrier Wurks Ci", "w-beam barrier")

	m := Evaluate(policy, candidate, []Fields{existing})
	require.NotNil(t, m)
	assert.Equal(t, ClauseNameAndProduct, m.Clause)
	assert.Equal(t, Pair{Candidate: 0, Existing: 1}, m.Pairs[FieldProductTypes])
	assert.InDelta(t, 0.9, m.Scores[FieldProductTypes], 1e-9)
}

func TestManufacturerPolicyFirstPeerWins(t *testing.T) {
	policy := ManufacturerPolicy(DefaultThresholds())
	peers := []Fields{
		manufacturerFields("Unrelated Traders", "Cone"),
		manufacturerFields("Crash Barrier", "Cone"),
		manufacturerFields("crash  barrier", "Cone"),
	}
	m := Evaluate(policy, manufacturerFields("Crash Barrier", "W-Beam"), peers)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Index)
}

func TestProductPolicy(t *testing.T) {
	policy := ProductPolicy(DefaultThresholds())
	existing := Fields{FieldName: Text("Crash Barrier"), FieldSubtypes: List("W-Beam", "Thrie Beam")}

	dup := Evaluate(policy, Fields{FieldName: Text("Crash Barriers"), FieldSubtypes: List("thrie beam")}, []Fields{existing})
	require.NotNil(t, dup)
	assert.Equal(t, ClauseNameAndSubtype, dup.Clause)

	clear := Evaluate(policy, Fields{FieldName: Text("Crash Barriers"), FieldSubtypes: List("Road Stud")}, []Fields{existing})
	assert.Nil(t, clear)
}

func TestOrderPolicyIsConjunctive(t *testing.T) {
	policy := OrderPolicy(DefaultThresholds())
	existing := orderFields("YNM Safety", "Crash Barrier", "W-Beam", "Nagpur", "Mumbai", 120)

	m := Evaluate(policy, orderFields("ynm safety", "Crash Barrier", "W-Beam", "Nagpur", "Mumbai", 120.004), []Fields{existing})
	require.NotNil(t, m)
	assert.Equal(t, ClauseAllFields, m.Clause)
	assert.Len(t, m.Scores, 6)

	assert.Nil(t, Evaluate(policy, orderFields("YNM Safety", "Crash Barrier", "W-Beam", "Nagpur", "Pune", 120), []Fields{existing}))
	assert.Nil(t, Evaluate(policy, orderFields("YNM Safety", "Crash Barrier", "W-Beam", "Nagpur", "Mumbai", 120.01), []Fields{existing}))
}

func TestTaskPolicyExactOnly(t *testing.T) {
	policy := TaskPolicy()
	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	existing := taskFields("Inspect Site A", "ravi", day)

	m := Evaluate(policy, taskFields("Inspect Site A ", "Ravi", day.Add(6*time.Hour)), []Fields{existing})
	require.NotNil(t, m)
	assert.Equal(t, ClauseSameTask, m.Clause)

	// Near-duplicate wording is allowed through even though the scorer
	// would rate it well above the fuzzy thresholds.
	require.Greater(t, Similarity("Inspect Site A", "Inspect site-A"), 0.85)
	assert.Nil(t, Evaluate(policy, taskFields("Inspect site-A", "ravi", day), []Fields{existing}))

	assert.Nil(t, Evaluate(policy, taskFields("Inspect Site A", "ravi", day.AddDate(0, 0, 1)), []Fields{existing}))
}

func TestEvaluateMissingFieldNeverMatches(t *testing.T) {
	policy := ManufacturerPolicy(DefaultThresholds())
	m := Evaluate(policy, Fields{FieldName: Text("Crash Barrier")}, []Fields{{}})
	assert.Nil(t, m)
}

func TestThresholdsWithDefaults(t *testing.T) {
	th := Thresholds{NameOnly: 0.99}.WithDefaults()
	assert.Equal(t, 0.99, th.NameOnly)
	assert.Equal(t, 0.85, th.Name)
	assert.Equal(t, 0.01, th.QuantityTolerance)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("Crash Barrier"), Fingerprint("  crash  BARRIER"))
	assert.NotEqual(t, Fingerprint("a", "bc"), Fingerprint("ab", "c"))
	assert.Equal(t, "120.00", QuantityKey(120.004))
	assert.Equal(t, "2026-03-14", DayKey(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)))
}
