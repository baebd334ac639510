package learning

// RewardConfig holds the reward shaping magnitudes. They are tunable; none of
// them is load-bearing on its own.
type RewardConfig struct {
	Goal            float64 `yaml:"goal" json:"goal"`                         // Reward for reaching the goal
	EfficiencyBonus float64 `yaml:"efficiency_bonus" json:"efficiency_bonus"` // Added to Goal divided by the moves taken
	Wall            float64 `yaml:"wall" json:"wall"`                         // Penalty for bumping into a wall
	Loop            float64 `yaml:"loop" json:"loop"`                         // Penalty for revisiting a recent position
	Closer          float64 `yaml:"closer" json:"closer"`                     // Reward for reducing the distance to the goal
	Farther         float64 `yaml:"farther" json:"farther"`                   // Penalty for increasing the distance to the goal
	Lateral         float64 `yaml:"lateral" json:"lateral"`                   // Penalty for moves that keep the distance
	SafetyFactor    float64 `yaml:"safety_factor" json:"safety_factor"`       // On-policy only; each blocked neighbor costs 1-SafetyFactor
}

// Params configures a learning agent.
type Params struct {
	LearningRate      float64 `yaml:"learning_rate" json:"learning_rate"`
	LearningRateMin   float64 `yaml:"learning_rate_min" json:"learning_rate_min"`
	LearningRateDecay float64 `yaml:"learning_rate_decay" json:"learning_rate_decay"`
	DiscountFactor    float64 `yaml:"discount_factor" json:"discount_factor"`

	Epsilon      float64 `yaml:"epsilon" json:"epsilon"`
	EpsilonMin   float64 `yaml:"epsilon_min" json:"epsilon_min"`
	EpsilonDecay float64 `yaml:"epsilon_decay" json:"epsilon_decay"`

	HistorySize     int `yaml:"history_size" json:"history_size"`         // Recent positions kept for loop detection
	RepeatThreshold int `yaml:"repeat_threshold" json:"repeat_threshold"` // Visits to one cell that trigger the second-best action
	FeatureRadius   int `yaml:"feature_radius" json:"feature_radius"`     // Half width of the local obstacle window

	MaxEpisodes int `yaml:"max_episodes" json:"max_episodes"`
	MaxSteps    int `yaml:"max_steps" json:"max_steps"`

	MinEpisodes           int     `yaml:"min_episodes" json:"min_episodes"`
	EarlyStoppingPatience int     `yaml:"early_stopping_patience" json:"early_stopping_patience"`
	EarlyStoppingMinDelta float64 `yaml:"early_stopping_min_delta" json:"early_stopping_min_delta"`
	EarlyStoppingWindow   int     `yaml:"early_stopping_window" json:"early_stopping_window"`
	ProgressInterval      int     `yaml:"progress_interval" json:"progress_interval"`

	Seed int64 `yaml:"seed" json:"seed"` // Zero seeds from the clock

	Rewards RewardConfig `yaml:"rewards" json:"rewards"`
}

const (
	maxFeatureRadius = 2
	tieNoise         = 1e-6
)

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		LearningRate:      0.1,
		LearningRateMin:   0.01,
		LearningRateDecay: 0.001,
		DiscountFactor:    0.95,

		Epsilon:      1.0,
		EpsilonMin:   0.01,
		EpsilonDecay: 0.995,

		HistorySize:     10,
		RepeatThreshold: 3,
		FeatureRadius:   1,

		MaxEpisodes: 5000,
		MaxSteps:    1000,

		MinEpisodes:           200,
		EarlyStoppingPatience: 20,
		EarlyStoppingMinDelta: 0.1,
		EarlyStoppingWindow:   100,
		ProgressInterval:      100,

		Rewards: RewardConfig{
			Goal:         100,
			Wall:         -5,
			Loop:         -2,
			Closer:       1,
			Farther:      -1,
			Lateral:      -0.1,
			SafetyFactor: 0.8,
		},
	}
}

// sanitize clamps out-of-range values to safe ones instead of failing.
func (p Params) sanitize() Params {
	d := DefaultParams()

	if p.LearningRate <= 0 || p.LearningRate > 1 {
		p.LearningRate = d.LearningRate
	}
	p.LearningRateMin = clamp(p.LearningRateMin, 0, p.LearningRate)
	if p.LearningRateDecay < 0 {
		p.LearningRateDecay = 0
	}
	p.DiscountFactor = clamp(p.DiscountFactor, 0, 1)

	p.Epsilon = clamp(p.Epsilon, 0, 1)
	p.EpsilonMin = clamp(p.EpsilonMin, 0, p.Epsilon)
	if p.EpsilonDecay <= 0 || p.EpsilonDecay > 1 {
		p.EpsilonDecay = d.EpsilonDecay
	}

	p.HistorySize = max(p.HistorySize, 1)
	p.RepeatThreshold = max(p.RepeatThreshold, 2)
	p.FeatureRadius = min(max(p.FeatureRadius, 1), maxFeatureRadius)

	p.MaxEpisodes = max(p.MaxEpisodes, 1)
	p.MaxSteps = max(p.MaxSteps, 1)
	p.MinEpisodes = max(p.MinEpisodes, 0)
	p.EarlyStoppingPatience = max(p.EarlyStoppingPatience, 1)
	p.EarlyStoppingWindow = max(p.EarlyStoppingWindow, 1)
	if p.EarlyStoppingMinDelta < 0 {
		p.EarlyStoppingMinDelta = 0
	}
	p.Rewards.SafetyFactor = clamp(p.Rewards.SafetyFactor, 0, 1)

	return p
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
