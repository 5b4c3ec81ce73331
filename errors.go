// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import "errors"

// Error kinds returned by the estimator, the deviation calculator and the loaders.
// Callers match them with errors.Is; messages carry the details.
var (
	// Baseline window has no values, so min/max are undefined
	ErrDegenerateSeries = errors.New("degenerate series")

	// No month in the phase scan sits below the midline
	ErrNoPhaseCandidate = errors.New("no phase candidate")

	// Shape, ordering, category or parameter mismatch
	ErrInvalidSeries = errors.New("invalid series")

	// Month label without a full English month name
	ErrUnrecognizedMonth = errors.New("unrecognized month")
)
