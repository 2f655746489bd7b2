// Package reagent implements a ReAct-style reasoning/acting agent loop.
//
// The loop drives a language model through iterative cycles of "think,
// act, observe" until the model produces a final answer or the step
// budget runs out. Each cycle is recorded as a [Step]; the ordered
// sequence of steps for one run is the trace.
//
// The core is deliberately small and collaborator-driven:
//
//   - [Session] sends role-tagged messages to a language model and
//     returns one completion. Implementations live in the models
//     subpackage.
//   - [Registry] holds named [ToolDescriptor] entries and validates
//     proposed calls against their parameter schemas. The registry
//     subpackage provides an in-memory implementation.
//   - The parse subpackage turns raw completion text into a Step.
//   - The executor subpackage turns a parsed action into an
//     observation string, containing every failure mode.
//   - The react subpackage orchestrates all of the above.
//
// # Quick Start
//
//	reg := registry.New()
//	reg.MustRegister(&reagent.ToolDescriptor{
//	    Name:        "search_features",
//	    Description: "Search the feature database",
//	    Schema: schema.Object(map[string]*schema.Property{
//	        "query": schema.String("Search query"),
//	    }, "query"),
//	    Handler: reagent.HandlerFunc(searchFeatures),
//	})
//
//	session := models.NewLangChain(llm)
//	loop := react.NewLoop(session, reg).WithMaxSteps(8)
//
//	final, err := loop.Run(ctx, "Estimate time for CRUD API")
//	if err != nil {
//	    // model call failed; loop.Trace() is still inspectable
//	}
//	fmt.Println(final.FinalAnswer)
package reagent
