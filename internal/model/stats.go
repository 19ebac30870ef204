package model

// GroupStats summarizes the ratings of one bucket for a box plot.
// Min and Max are the Tukey whisker bounds, not the raw extremes.
type GroupStats struct {
	Key    string  `json:"key" yaml:"key"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	// StdDev is the sample standard deviation; nil when Count < 2.
	StdDev           *float64    `json:"stdDev" yaml:"std_dev"`
	Count            int         `json:"count" yaml:"count"`
	DominantGenre    string      `json:"dominantGenre" yaml:"dominant_genre"`
	TypeDistribution []TypeCount `json:"typeDistribution" yaml:"type_distribution"`
}

// TypeCount is the number of members of one title type in a bucket.
type TypeCount struct {
	Type  TitleType `json:"type" yaml:"type"`
	Count int       `json:"count" yaml:"count"`
}

// Regression is an ordinary least squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	R2        float64 `json:"r2" yaml:"r2"`
	N         int     `json:"n" yaml:"n"`
}

// Predict evaluates the fitted line at x.
func (r Regression) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}
