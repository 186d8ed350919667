// Package insights turns scored and labelled reviews into the response
// segmentation shown on the feedback dashboard: per-review action tags,
// per-topic aggregates, rating and sentiment histograms and heat zones.
//
// Everything here is pure. Each call recomputes its output from the slice it
// is given and never retains or mutates it.
package insights
