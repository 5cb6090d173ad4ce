// Package conv provides checked integer conversions for shape arithmetic.
//
// Dump headers carry signed 32-bit counts that end up multiplied into byte
// lengths and slice sizes. These helpers reject negative values and products
// that overflow int instead of letting a corrupt header wrap around.
package conv
