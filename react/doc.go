// Package react implements the ReAct agent loop: think, act,
// observe, repeat, until the model answers or the step budget runs
// out.
//
// The loop owns the trace for one run and rebuilds the full
// conversation from it every turn, because sessions are stateless.
// The rebuild is byte-for-byte deterministic given the same trace;
// drifting reconstructions (an omitted observation in particular)
// make the model lose context and repeat actions.
package react
