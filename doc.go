// Package zephyr provides:
//
// - Composable type descriptors (Any, Integer, Float, String, Boolean, List, Tuple, Dict, Object)
// - Load: untrusted plain data (e.g. decoded JSON) -> validated in-language values
// - Dump: in-language values (maps, structs, methods) -> plain data
// - A structured error model: every failure of one call is reported at once as a
//   message tree keyed by field name or index (ValidationError, MessageMap)
//
// Design policy:
// - Keep the schema-construction API in the root package; formats live under codec/,
//   declarative schema files under definition/, and the CLI under cmd/zephyr.
// - Descriptors are immutable after construction and safe for concurrent use; each
//   Load/Dump call owns its own ErrorBuilder.
// - Data problems are returned as *ValidationError. Schema authoring defects panic with
//   *SchemaError.
//
// Typical usage:
//
//	user := zephyr.Object(map[string]any{
//	    "name":  zephyr.String(),
//	    "age":   zephyr.Integer(zephyr.WithValidators(validators.Range(0, 150))),
//	    "email": zephyr.String(),
//	}, zephyr.AllowExtraFields(false), zephyr.WithConstructor(zephyr.StructConstructor[User]()))
//
//	u, err := user.Load(ctx, payload)
//	plain, err := user.Dump(ctx, u)
//	problems := user.Validate(ctx, payload)
package zephyr
