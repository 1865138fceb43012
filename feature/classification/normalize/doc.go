// Package normalize maps source field vocabularies onto the canonical
// classification schema.
//
// Risk labels such as "Menengah Tinggi" become canonical levels; unknown labels
// become Unclassified. Ownership caps are percentages in [0,100] and anything
// else is dropped with an Anomaly. Scale tiers, clause lists, foreign investment
// status and fictitious-positive markers are parsed the same way: a value that
// cannot be interpreted is left absent, never fatal.
package normalize
