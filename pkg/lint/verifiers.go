package lint

import (
	"strconv"

	"github.com/quillworks/quill/pkg/textdist"
)

// Verifier computes the expected output of a transcript command.
// ok is false when the verifier cannot judge the given arguments.
type Verifier func(args []string) (output string, ok bool)

// DefaultVerifiers returns the built-in transcript verifiers.
func DefaultVerifiers() map[string]Verifier {
	return map[string]Verifier{
		"distance": verifyDistance,
		"expr":     verifyExpr,
	}
}

// verifyDistance recomputes `distance A B` claims.
func verifyDistance(args []string) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	return strconv.Itoa(textdist.Distance(args[0], args[1])), true
}

// verifyExpr evaluates `expr` style integer arithmetic (+, -, *) with the
// usual precedence.
func verifyExpr(args []string) (string, bool) {
	if len(args) == 0 || len(args)%2 == 0 {
		return "", false
	}

	// First pass: fold multiplication into a flat +/- sequence.
	var terms []int64
	var ops []byte

	current, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", false
	}

	for i := 1; i < len(args); i += 2 {
		op := args[i]
		operand, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			return "", false
		}

		switch op {
		case "*":
			current *= operand
		case "+", "-":
			terms = append(terms, current)
			ops = append(ops, op[0])
			current = operand
		default:
			return "", false
		}
	}
	terms = append(terms, current)

	result := terms[0]
	for i, op := range ops {
		if op == '+' {
			result += terms[i+1]
		} else {
			result -= terms[i+1]
		}
	}

	return strconv.FormatInt(result, 10), true
}
