// Package taxonomy holds the static keyword and verb lexicons the classifier,
// the temporal extractor and the quiz generator share. Keywords are French
// because the upstream corpus is fr.wikipedia; everything is lowercase and
// matched by substring against lowercased text.
package taxonomy

import "histomap/internal/domain"

// Weights applied per keyword hit when computing category scores. Origins is
// deliberately suppressed so incidental geography mentions do not dominate.
var CategoryWeights = map[domain.Category]int{
	domain.CategoryShock:        25,
	domain.CategoryCivilization: 12,
	domain.CategoryStruggle:     20,
	domain.CategoryOrigins:      5,
}

// ShockVerbWeight is the extra weight per conjugated shock-verb stem hit.
const ShockVerbWeight = 20

// CategoryKeywords maps each category to its scoring keyword set.
var CategoryKeywords = map[domain.Category][]string{
	domain.CategoryShock: {
		"massacre", "génocide", "déportation", "rafle", "fusillés",
		"exécution", "attentat", "pogrom", "extermination", "tuerie",
		"crime de guerre", "épuration", "shoah", "holocauste",
		"représailles", "charnier",
	},
	domain.CategoryCivilization: {
		"château", "cathédrale", "abbaye", "fondation", "construction",
		"université", "invention", "découverte", "exposition",
		"couronnement", "sacre", "inauguration", "monument",
		"patrimoine", "chef-d'œuvre",
	},
	domain.CategoryStruggle: {
		"bataille", "siège", "guerre", "révolte", "insurrection",
		"révolution", "soulèvement", "grève", "résistance",
		"libération", "armistice", "traité", "conquête", "croisade",
		"émeute", "mutinerie",
	},
	domain.CategoryOrigins: {
		"préhistoire", "néolithique", "paléolithique", "grotte",
		"dolmen", "menhir", "tumulus", "gallo-romain", "vestige",
		"fouilles", "archéologi", "oppidum", "mégalithe",
	},
}

// ShockVerbStems are conjugation stems counted on top of shock keywords.
var ShockVerbStems = []string{
	"massacr", "fusill", "déport", "extermin", "assassin", "bombard",
	"tortur", "incendi",
}

// MemorialKeywords trigger the memorial boost: any hit forces category shock
// and a score that bypasses normal category competition. The same set serves
// as the exception list for the sports blacklist.
var MemorialKeywords = []string{
	"camp de concentration", "camp d'extermination", "camp d'internement",
	"déportation", "déporté", "génocide", "shoah", "holocauste", "rafle",
}

// ImpactWords count casualties and victims; each occurrence adds to the
// impact bonus and to the memorial-boost score.
var ImpactWords = []string{
	"morts", "victimes", "tués", "blessés", "disparus", "massacrés",
	"prisonniers", "otages",
}

// ActionVerb maps a conjugation stem to the infinitive shown as a quiz hint.
type ActionVerb struct {
	Stem       string
	Infinitive string
}

// ActionVerbs is ordered: hint extraction keeps lexicon order, not textual
// order, so the most telling verbs surface first.
var ActionVerbs = []ActionVerb{
	{"massacr", "massacrer"},
	{"déport", "déporter"},
	{"fusill", "fusiller"},
	{"exécut", "exécuter"},
	{"bombard", "bombarder"},
	{"assassin", "assassiner"},
	{"incendi", "incendier"},
	{"détrui", "détruire"},
	{"assiég", "assiéger"},
	{"envah", "envahir"},
	{"pill", "piller"},
	{"brûl", "brûler"},
	{"libér", "libérer"},
	{"révolt", "se révolter"},
	{"captur", "capturer"},
	{"couronn", "couronner"},
	{"fonda", "fonder"},
	{"signa", "signer"},
}

// SportsKeywords mark articles that are really about sports venues.
var SportsKeywords = []string{
	"stade", "football", "rugby", "championnat", "hippodrome",
	"vélodrome", "gymnase", "club sportif", "cyclisme", "athlétisme",
}

// ReligiousBuildingStems flag church-architecture articles; matched as stems
// so "paroiss" catches both "paroisse" and "paroissial".
var ReligiousBuildingStems = []string{
	"église", "chapelle", "cathédrale", "basilique", "abbaye",
	"prieuré", "paroiss", "clocher", "édifice",
}

// GeoAdminKeywords mark pure administrative-geography stubs.
var GeoAdminKeywords = []string{
	"commune", "code postal", "canton", "arrondissement",
	"intercommunalité", "chef-lieu", "bassin versant", "localité",
	"hameau", "superficie",
}

// StopWords are excluded from title-word masking (function words that would
// over-mask the description). Only words of four letters or more matter.
var StopWords = []string{
	"dans", "avec", "pour", "sans", "sous", "cette", "leur", "leurs",
	"entre", "vers", "elle", "elles", "nous", "vous", "être", "avoir",
	"fait", "ainsi", "alors", "comme", "mais", "donc", "très", "tout",
	"tous", "toute", "toutes", "plus", "moins", "autre", "autres",
	"même", "aussi", "dont", "lors", "depuis", "pendant", "après",
	"avant", "celui", "celle", "ceux",
}

// FallbackTitles pad quiz decoys when the candidate pool runs dry. They are a
// correctness safety net, not meant to be geographically apt.
var FallbackTitles = []string{
	"Bataille de la Marne",
	"Siège d'Orléans",
	"Révolte des Canuts",
	"Traité de Verdun",
	"Massacre de la Saint-Barthélemy",
	"Libération de Paris",
	"Sac de Béziers",
	"Bataille de Castillon",
}

// KeywordQueries are the historically loaded searches run once per discovery
// pass alongside the geosearch grid.
var KeywordQueries = []string{
	"massacre", "pogrom", "révolte", "bombardement", "libération",
	"traité", "camp de concentration", "bataille", "rafle",
	"insurrection", "siège", "armistice",
}

// CenturyNumerals lists the Roman numerals for centuries I through XXI;
// index i holds century i+1.
var CenturyNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX",
	"XX", "XXI",
}

// RomanCentury renders a century number as its Roman numeral, or "" when out
// of the supported I–XXI range.
func RomanCentury(century int) string {
	if century < 1 || century > len(CenturyNumerals) {
		return ""
	}
	return CenturyNumerals[century-1]
}
