package source

// field names the intermediate record slot a raw column feeds.
type field int

const (
	fieldCode field = iota
	fieldTitle
	fieldRisk
	fieldPMA
	fieldOwnershipCap
	fieldScale
	fieldRequirements
	fieldObligations
	fieldFictitiousPositive
)

// Column labels are matched after folding (see headerKey), so only one spelling
// per label is listed.

var portalVocabulary = map[string]field{
	"kode kbli":               fieldCode,
	"kbli":                    fieldCode,
	"kode":                    fieldCode,
	"code":                    fieldCode,
	"judul kbli":              fieldTitle,
	"judul":                   fieldTitle,
	"nama kbli":               fieldTitle,
	"title":                   fieldTitle,
	"tingkat risiko":          fieldRisk,
	"risiko":                  fieldRisk,
	"risk":                    fieldRisk,
	"risk level":              fieldRisk,
	"status pma":              fieldPMA,
	"pma":                     fieldPMA,
	"terbuka pma":             fieldPMA,
	"pma allowed":             fieldPMA,
	"batas kepemilikan asing": fieldOwnershipCap,
	"kepemilikan asing":       fieldOwnershipCap,
	"ownership cap":           fieldOwnershipCap,
	"skala usaha":             fieldScale,
	"skala":                   fieldScale,
	"scale":                   fieldScale,
	"persyaratan":             fieldRequirements,
	"persyaratan perizinan":   fieldRequirements,
	"requirements":            fieldRequirements,
	"kewajiban":               fieldObligations,
	"kewajiban perizinan":     fieldObligations,
	"obligations":             fieldObligations,
	"fiktif positif":          fieldFictitiousPositive,
	"berlaku fiktif positif":  fieldFictitiousPositive,
	"fictitious positive":     fieldFictitiousPositive,
}

var regulationVocabulary = map[string]field{
	"kbli":                              fieldCode,
	"kode kbli":                         fieldCode,
	"no kbli":                           fieldCode,
	"code":                              fieldCode,
	"judul kbli":                        fieldTitle,
	"uraian kbli":                       fieldTitle,
	"bidang usaha":                      fieldTitle,
	"title":                             fieldTitle,
	"tingkat risiko":                    fieldRisk,
	"risiko":                            fieldRisk,
	"risk level":                        fieldRisk,
	"pma":                               fieldPMA,
	"penanaman modal asing":             fieldPMA,
	"pma allowed":                       fieldPMA,
	"ketentuan kepemilikan modal asing": fieldOwnershipCap,
	"batas maksimal kepemilikan asing":  fieldOwnershipCap,
	"persentase kepemilikan asing":      fieldOwnershipCap,
	"foreign ownership cap":             fieldOwnershipCap,
	"skala usaha":                       fieldScale,
	"skala":                             fieldScale,
	"scale tiers":                       fieldScale,
	"persyaratan":                       fieldRequirements,
	"persyaratan dasar":                 fieldRequirements,
	"requirements":                      fieldRequirements,
	"kewajiban":                         fieldObligations,
	"kewajiban pelaku usaha":            fieldObligations,
	"obligations":                       fieldObligations,
	"fiktif positif":                    fieldFictitiousPositive,
	"fictitious positive eligible":      fieldFictitiousPositive,
}
