package domain

// RegressionReport holds the fitted profit-on-sales baseline and its
// quality on the held-out partition
type RegressionReport struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	MSE       float64 `json:"mse"`
	R2        float64 `json:"r2"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Seed      int64   `json:"seed"`
}

// Predict evaluates the fitted line at the given sales value
func (r *RegressionReport) Predict(sales float64) float64 {
	return r.Intercept + r.Slope*sales
}
