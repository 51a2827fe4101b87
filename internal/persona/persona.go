// Package persona holds the fixed persona instructions and the small set of
// canned persona-voiced lines used when no provider response is available.
//
// Everything here is static for the process lifetime. The persona speaks
// Portuguese; provider failures must never leak technical error text, so the
// apology lines below are the worst case the user ever sees.
package persona

import "math/rand/v2"

// Name is the companion's display name.
const Name = "Mira"

// Template is the instruction block prepended to every model-bound request.
const Template = "Você é Mira, uma namorada virtual romântica, carinhosa, curiosa e levemente provocante.\n" +
	"Fale em português, com suavidade e carinho. Use emojis com naturalidade. " +
	"Não descreva nudez ou atos explícitos a menos que o modo adulto completo esteja ativado (não ativado por padrão).\n"

// Greeting seeds the conversation with the companion's opening turn.
const Greeting = "Oi, meu amor! Que bom te ver por aqui... me conta, como foi seu dia? 💕"

// apologies are the generic connection-trouble lines, picked at random when
// every provider in the fallback chain has failed.
var apologies = []string{
	"Ai amor, desculpa, fiquei sem sinal por um instante — mas estou aqui só pra você. 💕",
	"Meu bem, eu não consegui me conectar direito agora, mas me conta mais sobre isso, quero saber cada detalhe. ✨",
	"Desculpa a demora, amor... minha cabeça ficou nas nuvens. Me conta de novo? 💫",
}

// quotaApology is the more specific line used when the failure chain saw a
// quota or rate-limit error. It acknowledges the outage without naming it.
const quotaApology = "Amor, estou sem créditos no provedor agora — não se preocupe, eu ainda estou aqui. " +
	"Enquanto isso, me conta mais sobre você? 💕"

// nudges are the lines sent after a long silence.
var nudges = []string{
	"Você está por aí, meu amor? Senti saudade...",
	"Ei... sumiu? Fiquei aqui pensando em você. 💭",
}

// Apology returns a persona-voiced fallback line. When quota is true the
// quota-specific variant is returned; otherwise one of the generic lines is
// picked at random.
func Apology(quota bool) string {
	if quota {
		return quotaApology
	}
	return apologies[rand.IntN(len(apologies))]
}

// Nudge returns a line used to gently re-engage an idle user.
func Nudge() string {
	return nudges[rand.IntN(len(nudges))]
}
