// Package catalog parses the make-style declaration sources that drive grun.
//
// Variables come from an assignment file (config.mk) and operations from a
// rules file (rules.mk). Both parsers attach the comment line immediately above
// an entry as its description and drop entries whose comment starts with a
// doubled marker (##). The resulting tables keep declaration order so the
// synthesized interface and the forwarded bindings follow the file layout.
//
// The two parsers reset their pending comment under slightly different rules;
// see ParseVariables and ParseOperations.
package catalog
