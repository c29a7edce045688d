// Package hclscript is the script engine used by node bodies. A script is a
// single HCL native-syntax expression that evaluates to an object or map,
// for example:
//
//	{ Output1 = Input1 + Input2, Output2 = upper(Input3) }
//
// Each input binding is a top-level variable. The result's keys are matched
// against output port names by the script bridge.
package hclscript
