// Package document models CloudFormation-shaped templates as plain Go trees.
//
// A document is a map[string]any whose values are nested mappings
// (map[string]any), sequences ([]any) and scalars. The package provides
// the pieces the transform engine is built from:
//
//   - Walk, a depth-first traversal that exposes each mapping entry
//     together with the slot its containing mapping lives in
//   - SearchAndReplace, which rewrites every recognized reference shape
//     (Ref, Fn::GetAtt, Fn::FindInMap, Fn::If, Condition, DependsOn, Fn::Sub)
//   - ParseSub, a tokenizer for Fn::Sub interpolation strings
//   - Combine, a recursive merge where sequences concatenate
//   - Decode and Encode for YAML (including short-form tags such as !Ref)
//     and JSON with comments
//
// # Reference shapes
//
//	Ref:        {"Ref": "Bucket"}
//	GetAtt:     {"Fn::GetAtt": ["Bucket", "Arn"]}
//	Condition:  {"Condition": "IsProd"}
//	DependsOn:  {"DependsOn": ["Bucket", "Role"]}
//	Sub:        {"Fn::Sub": "arn:aws:s3:::${Bucket}/*"}
package document
