// Package model defines the Gateway abstraction through which autodev talks to
// its chat-completion backend, plus helpers built on it.
//
// Core goals:
//   - Keep the single external network dependency behind one small interface
//   - Classify every failure as a core.GatewayError (network, auth, decode)
//   - Facilitate lightweight mocking for tests (MockGateway)
//
// The concrete OpenAI implementation lives in model/openai. Retries are not a
// gateway concern; see package flow.
package model
