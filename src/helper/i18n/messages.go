package i18n

const (
	MsgPaginationMissing  = "pagination.missing"
	MsgPaginationBoth     = "pagination.both"
	MsgPaginationType     = "pagination.type"
	MsgPaginationNegative = "pagination.negative"
	MsgPaginationLimit    = "pagination.limit"
	MsgLoadFailed         = "load.failed"
	MsgNotFound           = "load.not_found"
	MsgAuthentication     = "auth.required"

	NounAffiliations   = "noun.affiliations"
	NounDomains        = "noun.domains"
	NounDkim           = "noun.dkim"
	NounDkimResults    = "noun.dkim_results"
	NounDmarc          = "noun.dmarc"
	NounSpf            = "noun.spf"
	NounSsl            = "noun.ssl"
	NounGuidanceTags   = "noun.guidance_tags"
	NounDmarcSummaries = "noun.dmarc_summaries"
	NounUsers          = "noun.users"
	NounOrganizations  = "noun.organizations"
)

type translation struct {
	en string
	fr string
}

var translations = map[string]translation{
	MsgPaginationMissing: {
		en: "You must provide a `first` or `last` value to properly paginate the `%s` connection.",
		fr: "Vous devez fournir une valeur `first` ou `last` pour paginer correctement la connexion `%s`.",
	},
	MsgPaginationBoth: {
		en: "Passing both `first` and `last` to paginate the `%s` connection is not supported.",
		fr: "Passer à la fois `first` et `last` pour paginer la connexion `%s` n'est pas supporté.",
	},
	MsgPaginationType: {
		en: "`%s` must be of type `number` not `%s`.",
		fr: "`%s` doit être de type `number` et non `%s`.",
	},
	MsgPaginationNegative: {
		en: "`%s` on the `%s` connection cannot be less than zero.",
		fr: "`%s` sur la connexion `%s` ne peut être inférieur à zéro.",
	},
	MsgPaginationLimit: {
		en: "Requesting `%s` records on the `%s` connection exceeds the `%s` limit of %s records.",
		fr: "La demande de `%s` enregistrements sur la connexion `%s` dépasse la limite `%s` de %s enregistrements.",
	},
	MsgLoadFailed: {
		en: "Unable to load %s. Please try again.",
		fr: "Impossible de charger %s. Veuillez réessayer.",
	},
	MsgNotFound: {
		en: "No %s with the provided id could be found.",
		fr: "Aucun(e) %s avec l'identifiant fourni n'a pu être trouvé(e).",
	},
	MsgAuthentication: {
		en: "Authentication error. Please sign in.",
		fr: "Erreur d'authentification. Veuillez vous connecter.",
	},

	NounAffiliations:   {en: "affiliation(s)", fr: "affiliation(s)"},
	NounDomains:        {en: "domain(s)", fr: "domaine(s)"},
	NounDkim:           {en: "DKIM scan(s)", fr: "scan(s) DKIM"},
	NounDkimResults:    {en: "DKIM result(s)", fr: "résultat(s) DKIM"},
	NounDmarc:          {en: "DMARC scan(s)", fr: "scan(s) DMARC"},
	NounSpf:            {en: "SPF scan(s)", fr: "scan(s) SPF"},
	NounSsl:            {en: "SSL scan(s)", fr: "scan(s) SSL"},
	NounGuidanceTags:   {en: "guidance tag(s)", fr: "tag(s) d'orientation"},
	NounDmarcSummaries: {en: "DMARC summary data", fr: "données de synthèse DMARC"},
	NounUsers:          {en: "user(s)", fr: "utilisateur(s)"},
	NounOrganizations:  {en: "organization(s)", fr: "organisation(s)"},
}
