package normalize

import "kbli-registry/feature/classification/models"

// Lookup tables are keyed by folded, whitespace-collapsed values (see key).

var riskVocabulary = map[string]models.RiskLevel{
	"rendah":          models.RiskLow,
	"r":               models.RiskLow,
	"low":             models.RiskLow,
	"menengah rendah": models.RiskMedium,
	"menengah tinggi": models.RiskMedium,
	"menengah":        models.RiskMedium,
	"sedang":          models.RiskMedium,
	"mr":              models.RiskMedium,
	"mt":              models.RiskMedium,
	"medium":          models.RiskMedium,
	"medium low":      models.RiskMedium,
	"medium high":     models.RiskMedium,
	"tinggi":          models.RiskHigh,
	"t":               models.RiskHigh,
	"high":            models.RiskHigh,
}

var pmaVocabulary = map[string]bool{
	"ya":          true,
	"y":           true,
	"yes":         true,
	"boleh":       true,
	"terbuka":     true,
	"diizinkan":   true,
	"open":        true,
	"allowed":     true,
	"true":        true,
	"1":           true,
	"tidak":       false,
	"n":           false,
	"no":          false,
	"tidak boleh": false,
	"tertutup":    false,
	"dilarang":    false,
	"closed":      false,
	"false":       false,
	"0":           false,
}

var flagVocabulary = map[string]bool{
	"ya":            true,
	"y":             true,
	"yes":           true,
	"berlaku":       true,
	"true":          true,
	"1":             true,
	"tidak":         false,
	"n":             false,
	"no":            false,
	"tidak berlaku": false,
	"false":         false,
	"0":             false,
}

var scaleVocabulary = map[string][]models.ScaleTier{
	"mikro":         {models.ScaleMicro},
	"micro":         {models.ScaleMicro},
	"um":            {models.ScaleMicro},
	"kecil":         {models.ScaleSmall},
	"small":         {models.ScaleSmall},
	"uk":            {models.ScaleSmall},
	"menengah":      {models.ScaleMedium},
	"medium":        {models.ScaleMedium},
	"besar":         {models.ScaleLarge},
	"large":         {models.ScaleLarge},
	"ub":            {models.ScaleLarge},
	"umk":           {models.ScaleMicro, models.ScaleSmall},
	"semua":         models.ScaleTiers,
	"semua skala":   models.ScaleTiers,
	"seluruh skala": models.ScaleTiers,
	"all":           models.ScaleTiers,
}

// placeholders are cell values that mean "no value".
var placeholders = map[string]struct{}{
	"-":         {},
	"--":        {},
	"n/a":       {},
	"na":        {},
	"none":      {},
	"tidak ada": {},
}
