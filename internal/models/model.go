package models

import (
	"fmt"
	"sort"
)

// EntrantChoice is the entrant's product development decision.
type EntrantChoice string

const (
	ChoiceComplement  EntrantChoice = "E_C"
	ChoiceSubstitute  EntrantChoice = "E_P"
	ChoiceIndifferent EntrantChoice = "E_C/E_P"
)

// IncumbentChoice is the incumbent's reaction to the entrant.
type IncumbentChoice string

const (
	ChoiceCopy    IncumbentChoice = "©"
	ChoiceRefrain IncumbentChoice = "Ø"
	ChoiceAcquire IncumbentChoice = "A"
)

// DevelopmentOutcome records whether the entrant obtains funding and
// completes its second product.
type DevelopmentOutcome string

const (
	DevelopmentSuccess DevelopmentOutcome = "Y"
	DevelopmentFailure DevelopmentOutcome = "N"
)

// OwnershipOutcome records whether the two firms end up merged.
// Only the acquisition model produces Merged.
type OwnershipOutcome string

const (
	OwnershipMerged OwnershipOutcome = "M"
	OwnershipApart  OwnershipOutcome = "E"
)

// Choice is the equilibrium path for one (A, F) parameter point: the
// strategies that survive backward induction.
type Choice struct {
	Entrant     EntrantChoice      `json:"entrant"`
	Incumbent   IncumbentChoice    `json:"incumbent"`
	Development DevelopmentOutcome `json:"development"`
	Ownership   OwnershipOutcome   `json:"ownership"`
}

// PathKey renders the choice as a stable aggregation key.
func (c Choice) PathKey() string {
	key := string(c.Entrant) + "|" + string(c.Incumbent) + "|" + string(c.Development)
	if c.Ownership == OwnershipMerged {
		key += "|M"
	}
	return key
}

// KillZone reports whether the choice is the kill-zone outcome: the entrant
// ducks into the complement and the incumbent refrains.
func (c Choice) KillZone() bool {
	return c.Entrant == ChoiceComplement && c.Incumbent == ChoiceRefrain
}

// MarketConfig identifies a post-game market configuration.
type MarketConfig string

const (
	ConfigBase     MarketConfig = "base"
	ConfigCopy     MarketConfig = "I(C)"
	ConfigSub      MarketConfig = "E(P)"
	ConfigCopySub  MarketConfig = "I(C)E(P)"
	ConfigComp     MarketConfig = "E(C)"
	ConfigCopyComp MarketConfig = "I(C)E(C)"
)

// MarketConfigs lists all configurations in presentation order.
var MarketConfigs = []MarketConfig{
	ConfigBase, ConfigCopy, ConfigSub, ConfigCopySub, ConfigComp, ConfigCopyComp,
}

// Payoff holds the surplus split for one market configuration.
// Total welfare always satisfies W = PiI + PiE + CS.
type Payoff struct {
	PiI float64 `json:"pi_i"` // incumbent profit
	PiE float64 `json:"pi_e"` // entrant profit
	CS  float64 `json:"cs"`   // consumer surplus
	W   float64 `json:"w"`    // total welfare
}

// Thresholds collects the closed-form boundaries of the parameter plane.
// CopyingCosts are thresholds on the incumbent's fixed cost of copying F,
// Assets are thresholds on the entrant's assets A.
type Thresholds struct {
	CopyingCosts map[string]float64 `json:"copying_costs"`
	Assets       map[string]float64 `json:"assets"`
}

// Copying cost threshold keys. The YY/YN infix reads "entrant develops /
// development outcome under copying", the s/c suffix is the entrant's choice.
const (
	ThresholdFYYs = "F(YY)s"
	ThresholdFYNs = "F(YN)s"
	ThresholdFYYc = "F(YY)c"
	ThresholdFYNc = "F(YN)c"
	ThresholdFAcqS = "F(ACQ)s"
	ThresholdFAcqC = "F(ACQ)c"
)

// Asset threshold keys. The bar variants apply when the incumbent refrains.
const (
	ThresholdAs    = "A_s"
	ThresholdAc    = "A_c"
	ThresholdABarS = "A-s"
	ThresholdABarC = "A-c"
)

// ModelSpec describes a registered model variant.
type ModelSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Model is a solved instance of one variant of the entry-deterrence game.
// Thresholds and payoffs are computed once at construction; OptimalChoice
// classifies a single (A, F) point via the closed-form boundaries.
type Model interface {
	// Spec returns metadata about the model variant
	Spec() ModelSpec

	// Params returns the economic parameters the model was built with
	Params() Params

	// Thresholds returns the copying cost and asset thresholds
	Thresholds() Thresholds

	// Payoffs returns the surplus split per market configuration
	Payoffs() map[MarketConfig]Payoff

	// OptimalChoice returns the equilibrium path for the entrant's assets A
	// and the incumbent's fixed cost of copying F
	OptimalChoice(A, F float64) Choice

	// Summary returns a human-readable report of thresholds and payoffs
	Summary() string
}

// Factory builds a model variant from a parameter set.
type Factory func(Params) (Model, error)

type registryEntry struct {
	spec    ModelSpec
	factory Factory
}

// registry holds all available model variants
var registry = make(map[string]registryEntry)

// Register adds a model variant to the registry.
func Register(spec ModelSpec, factory Factory) {
	registry[spec.ID] = registryEntry{spec: spec, factory: factory}
}

// New constructs a registered model variant by ID.
func New(id string, p Params) (Model, error) {
	entry, exists := registry[id]
	if !exists {
		return nil, fmt.Errorf("model '%s' not found", id)
	}
	return entry.factory(p)
}

// Exists reports whether a model variant is registered.
func Exists(id string) bool {
	_, ok := registry[id]
	return ok
}

// List returns the specs of all registered variants, sorted by ID.
func List() []ModelSpec {
	specs := make([]ModelSpec, 0, len(registry))
	for _, entry := range registry {
		specs = append(specs, entry.spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

// init registers all model variants
func init() {
	Register(baseSpec, func(p Params) (Model, error) { return NewBaseModel(p) })
	Register(bargainingSpec, func(p Params) (Model, error) { return NewBargainingPowerModel(p) })
	Register(unobservableSpec, func(p Params) (Model, error) { return NewUnobservableModel(p) })
	Register(acquisitionSpec, func(p Params) (Model, error) { return NewAcquisitionModel(p) })
	Register(twoSidedSpec, func(p Params) (Model, error) { return NewTwoSidedMarketModel(p) })
}
