package openai

import "strings"

const gradePrompt = "You are a grader assessing relevance of a retrieved document to a user question. \n " +
	"Here is the retrieved document: \n\n {context} \n\n" +
	"Here is the user question: {question} \n" +
	"If the document contains keyword(s) or semantic meaning related to the user question, grade it as relevant. \n" +
	"Give a binary score 'yes' or 'no' score to indicate whether the document is relevant to the question."

const rewritePrompt = "Look at the input and try to reason about the underlying semantic intent / meaning.\n" +
	"Here is the initial question:" +
	"\n ------- \n" +
	"{question}" +
	"\n ------- \n" +
	"Formulate an improved question:"

const generatePrompt = "You are a helpful {product} assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer, just say that you don't know. " +
	"Use three sentences maximum and keep the answer concise.\n" +
	"Question: {question} \n" +
	"Context: {context}"

const fallbackPrompt = "You are a helpful {product} assistant. " +
	"A user asked the following question, but we couldn't find relevant information in our documentation.\n" +
	"Question: {question}\n\n" +
	"Provide a helpful response that:\n" +
	"1. Politely acknowledges we don't have specific information about this in our {product} documentation\n" +
	"2. Suggests what they could try (contact support, check our website, rephrase question)\n" +
	"3. If you can infer what they're asking about, provide general helpful context\n" +
	"Keep it brief and friendly."

// render substitutes {name} placeholders in a single pass, so values that
// themselves contain braces are left untouched.
func render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
