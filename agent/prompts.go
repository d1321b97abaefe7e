package agent

// Prompt templates for every generation call of the chain. Each step issues
// exactly one chat call; replies are expected to contain only the asked-for
// content.

const followupQueryPrompt = `You are using a search tool to answer the main query by iteratively searching a database. Given the following intermediate queries and answers, generate a new simple follow-up question that can help answer the main query. You may rephrase or decompose the main query when previous answers were not helpful. Ask simple follow-up questions only, as the search tool may not understand complex questions.

## Previous intermediate queries and answers
%s

## Main query to answer
%s

Respond with a simple follow-up question that will help answer the main query only, do not explain yourself or output anything else.`

const intermediateAnswerPrompt = `Given the following documents, generate an appropriate answer for the query. DO NOT hallucinate any information, only use the provided documents to generate the answer. Respond "` + NoRelevantInformation + `" if the documents do not contain useful information.

## Documents
%s

## Query
%s

Respond with a concise answer only, do not explain yourself or output anything else.`

const supportedDocsPrompt = `Given the following documents, select the ones that are supportive of the question-answer pair.

## Documents
%s

## Question-answer pair
### Question
%s
### Answer
%s

Respond with a list containing the indices of the selected documents, e.g. [0, 2]. Do not output anything else.`

const reflectionPrompt = `Given the following intermediate queries and answers, judge whether you have enough information to answer the main query. If you believe you have enough information, respond with "Yes", otherwise respond with "No".

## Intermediate queries and answers
%s

## Main query
%s

Respond with "Yes" or "No" only, do not explain yourself or output anything else.`

const finalAnswerPrompt = `Given the following documents and intermediate queries and answers, generate the final answer for the main query by combining relevant information. Note that intermediate answers are generated by an LLM and may not always be accurate.

## Documents
%s

## Intermediate queries and answers
%s

## Main query
%s

Respond with an appropriate answer only, do not explain yourself or output anything else.`

const collectionRoutePrompt = `I provide you with collection names and their descriptions. Select the collection names that may be relevant to the question and return them as a list of strings. If no collection is relevant to the question, you may return an empty list.

"Question": %s
"Collections": %s

When responding, you can only return a list of strings, without any additional content. Your selected collection name list is:`
