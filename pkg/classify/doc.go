// Package classify maps inventory items to typed target-platform components.
//
// Classification is priority-ordered rule evaluation with no scoring: the
// first satisfied rule wins. The rule order is fixed:
//
//  1. Explicit free-text recommendation match against the recommendation
//     lexicon.
//  2. Role/OS substring match against the ordered role lexicon.
//  3. Insight-category fallback (a "container" category forces a container
//     type; a "web" category with small memory forces a web service).
//  4. Default to a virtual machine.
//
// Classification never fails: an unmappable record resolves silently to the
// default type. The keyword tables live in a [Lexicon], an immutable
// configuration value injected into the [Classifier]; the built-in tables
// can be replaced wholesale from a TOML file via [LoadLexicon].
package classify
