package pipeline

// samples are small programs written as English statements
var samples = []string{
	"To Calculate factorial of a number: if a number is 0 then result is 1. " +
		"if a number is 1 then result is 1. " +
		"let a previous number is a number minus 1. " +
		"calculate factorial of a previous number into a previous factorial. " +
		"result is a previous factorial multiply a number.",
	"let a value equals 10 . add 20 to a value. multiply a value by 42.",
	"add 20 to a value.",
	"multiply a value by 42.",
	"To get answer to all questions: result is 42.",
	"To calculate area from a width and a height: multiply a width by a height.",
}

// Samples returns the built-in sample texts
func Samples() []string {
	out := make([]string, len(samples))
	copy(out, samples)
	return out
}
