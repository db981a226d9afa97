package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"nomengine/domain/analysis"
	"nomengine/internal/numeric"
)

// olsFit is an ordinary least squares fit with the pieces the diagnostic
// battery needs: coefficients with standard errors, residuals, leverages,
// and R².
type olsFit struct {
	coeffs    []float64 // intercept first, then one per predictor
	se        []float64
	residuals []float64
	fitted    []float64
	leverages []float64
	r2        float64
	n         int
	k         int // predictors, excluding intercept
}

// fitOLS solves y = b0 + Σ b_i x_i by QR decomposition
func fitOLS(y []float64, predictors ...[]float64) (*olsFit, error) {
	n := len(y)
	k := len(predictors)
	if n < k+2 {
		return nil, fmt.Errorf("need at least %d observations for %d predictors, have %d", k+2, k, n)
	}
	for i, p := range predictors {
		if len(p) != n {
			return nil, fmt.Errorf("predictor %d has %d values, outcome has %d", i, len(p), n)
		}
	}

	X := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, p := range predictors {
			X.Set(i, j+1, p[i])
		}
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}

	fit := &olsFit{
		coeffs:    make([]float64, k+1),
		residuals: make([]float64, n),
		fitted:    make([]float64, n),
		leverages: make([]float64, n),
		n:         n,
		k:         k,
	}
	for j := 0; j <= k; j++ {
		fit.coeffs[j] = beta.AtVec(j)
	}

	meanY := numeric.Mean(y)
	rss, tss := 0.0, 0.0
	for i := 0; i < n; i++ {
		pred := fit.coeffs[0]
		for j, p := range predictors {
			pred += fit.coeffs[j+1] * p[i]
		}
		fit.fitted[i] = pred
		fit.residuals[i] = y[i] - pred
		rss += fit.residuals[i] * fit.residuals[i]
		tss += (y[i] - meanY) * (y[i] - meanY)
	}
	if tss > 0 {
		fit.r2 = 1 - rss/tss
	}

	// Covariance of coefficients: sigma² (X'X)^-1; also hat-matrix
	// diagonals for Cook's distance.
	df := float64(n - k - 1)
	sigma2 := rss / df

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("singular X'X: %w", err)
	}

	fit.se = make([]float64, k+1)
	for j := 0; j <= k; j++ {
		fit.se[j] = math.Sqrt(sigma2 * xtxInv.At(j, j))
	}

	for i := 0; i < n; i++ {
		row := mat.NewVecDense(k+1, nil)
		for j := 0; j <= k; j++ {
			row.SetVec(j, X.At(i, j))
		}
		var tmp mat.VecDense
		tmp.MulVec(&xtxInv, row)
		fit.leverages[i] = mat.Dot(row, &tmp)
	}

	return fit, nil
}

// coefPValue returns the two-tailed p-value of coefficient j
func (f *olsFit) coefPValue(j int) float64 {
	df := float64(f.n - f.k - 1)
	if df <= 0 || f.se[j] == 0 {
		return 1.0
	}
	t := math.Abs(f.coeffs[j] / f.se[j])
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(t))
}

// coefCI returns the 95% confidence interval of coefficient j
func (f *olsFit) coefCI(j int) (float64, float64) {
	df := float64(f.n - f.k - 1)
	if df <= 0 {
		return f.coeffs[j], f.coeffs[j]
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	tCrit := tDist.Quantile(0.975)
	return f.coeffs[j] - tCrit*f.se[j], f.coeffs[j] + tCrit*f.se[j]
}

// vifs computes the variance inflation factor of each predictor by
// regressing it on the others. A single predictor has VIF 1 by definition.
func vifs(predictors [][]float64) []float64 {
	k := len(predictors)
	out := make([]float64, k)
	for i := range out {
		out[i] = 1.0
	}
	if k < 2 {
		return out
	}
	for i := 0; i < k; i++ {
		others := make([][]float64, 0, k-1)
		for j := 0; j < k; j++ {
			if j != i {
				others = append(others, predictors[j])
			}
		}
		fit, err := fitOLS(predictors[i], others...)
		if err != nil {
			continue
		}
		if fit.r2 < 1 {
			out[i] = 1.0 / (1.0 - fit.r2)
		} else {
			out[i] = math.Inf(1)
		}
	}
	return out
}

// breuschPagan tests residual heteroskedasticity: LM = n·R² of the squared
// residuals regressed on the predictors, against χ²(k).
func breuschPagan(fit *olsFit, predictors [][]float64) (lm float64, pValue float64) {
	sqResiduals := make([]float64, fit.n)
	for i, r := range fit.residuals {
		sqResiduals[i] = r * r
	}
	aux, err := fitOLS(sqResiduals, predictors...)
	if err != nil {
		return 0, 1.0
	}
	lm = float64(fit.n) * aux.r2
	chiDist := distuv.ChiSquared{K: float64(fit.k)}
	pValue = 1 - chiDist.CDF(lm)
	return lm, pValue
}

// residualNormality approximates a Shapiro-Wilk test from skewness and
// excess kurtosis of the residuals (the proper SW coefficients are not worth
// carrying for a caveat flag).
func residualNormality(residuals []float64) (isNormal bool, pValue float64) {
	if len(residuals) < 3 {
		return false, 1.0
	}
	mean := numeric.Mean(residuals)
	sd := numeric.StdDev(residuals)
	if sd == 0 {
		return false, 1.0
	}

	skew, kurt := 0.0, 0.0
	for _, r := range residuals {
		z := (r - mean) / sd
		skew += z * z * z
		kurt += z * z * z * z
	}
	n := float64(len(residuals))
	skew /= n
	kurt /= n

	testStat := math.Abs(skew) + math.Abs(kurt-3)/2
	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)
	return pValue > 0.05, pValue
}

// cooksDistances flags influential points above the 4/n threshold
func cooksDistances(fit *olsFit) (distances []float64, influential int) {
	df := float64(fit.n - fit.k - 1)
	if df <= 0 {
		return nil, 0
	}
	rss := 0.0
	for _, r := range fit.residuals {
		rss += r * r
	}
	sigma2 := rss / df
	p := float64(fit.k + 1)
	threshold := 4.0 / float64(fit.n)

	distances = make([]float64, fit.n)
	for i := 0; i < fit.n; i++ {
		h := fit.leverages[i]
		if h >= 1 || sigma2 == 0 {
			continue
		}
		r := fit.residuals[i]
		distances[i] = (r * r / (p * sigma2)) * (h / ((1 - h) * (1 - h)))
		if distances[i] > threshold {
			influential++
		}
	}
	return distances, influential
}

// regressionDiagnostics fits scores against outcomes alongside the raw
// feature columns and annotates every violated assumption as a caveat.
func (a *Analyzer) regressionDiagnostics(outcomes []float64, names []string, predictors [][]float64) (analysis.Result, error) {
	fit, err := fitOLS(outcomes, predictors...)
	if err != nil {
		return analysis.Result{}, err
	}

	ciLow, ciHigh := fit.coefCI(1)
	result := analysis.Result{
		Kind:     analysis.KindRegression,
		Name:     "ols_diagnostics",
		Estimate: fit.coeffs[1],
		CILow:    ciLow,
		CIHigh:   ciHigh,
		PValue:   fit.coefPValue(1),
	}
	result.WithMeta("r_squared", fit.r2)
	result.WithMeta("coefficients", append([]float64(nil), fit.coeffs...))
	result.WithMeta("predictor_names", names)

	vifValues := vifs(predictors)
	result.WithMeta("vif", vifValues)
	for i, v := range vifValues {
		if v > vifThreshold {
			result.AddCaveat(fmt.Sprintf("multicollinearity: VIF of %s is %.1f (threshold %.0f)", names[i], v, vifThreshold))
		}
	}

	lm, bpP := breuschPagan(fit, predictors)
	result.WithMeta("breusch_pagan_lm", lm)
	result.WithMeta("breusch_pagan_p", bpP)
	if bpP < 0.05 {
		result.AddCaveat(fmt.Sprintf("heteroskedastic residuals (Breusch-Pagan p=%.3f)", bpP))
	}

	isNormal, swP := residualNormality(fit.residuals)
	result.WithMeta("shapiro_p", swP)
	if !isNormal {
		result.AddCaveat(fmt.Sprintf("non-normal residuals (Shapiro-Wilk approximation p=%.3f)", swP))
	}

	_, influential := cooksDistances(fit)
	result.WithMeta("influential_points", influential)
	if influential > 0 {
		result.AddCaveat(fmt.Sprintf("%d influential points by Cook's distance (threshold 4/n)", influential))
	}

	return result, nil
}
