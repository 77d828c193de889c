package assemble

import (
	"math"

	"typeschema/internal/schema"
)

// maxPartial is the coverage reported when rounding would hide a missing slot.
const maxPartial = 99.99

// MissingAnnotations lists every function and method slot typed as any:
// "module.Func (return type)" for results and "module.Func.param" for
// parameters, with "module.Class.Method" for methods. Constructors and
// properties are not counted.
func MissingAnnotations(modules []schema.ModuleDescriptor) []string {
	missing := []string{}
	for _, mod := range modules {
		for _, fn := range mod.Functions {
			missing = appendMissing(missing, mod.Name+"."+fn.Name, fn)
		}

		for _, cls := range mod.Classes {
			for _, m := range cls.Methods {
				missing = appendMissing(missing, mod.Name+"."+cls.Name+"."+m.Name, m)
			}
		}
	}

	return missing
}

func appendMissing(missing []string, qualified string, fn schema.FunctionDescriptor) []string {
	if fn.ReturnType.IsAny() {
		missing = append(missing, qualified+" (return type)")
	}

	for _, p := range fn.Params {
		if p.Type.IsAny() {
			missing = append(missing, qualified+"."+p.Name)
		}
	}

	return missing
}

// Coverage is the percentage of typed slots over all function and method
// slots (one per result plus one per parameter), rounded to two decimals.
// It is exactly 100 when there are no slots, and below 100 whenever a slot
// is missing.
func Coverage(modules []schema.ModuleDescriptor) float64 {
	total := 0
	for _, mod := range modules {
		for _, fn := range mod.Functions {
			total += slots(fn)
		}

		for _, cls := range mod.Classes {
			for _, m := range cls.Methods {
				total += slots(m)
			}
		}
	}

	if total == 0 {
		return 100
	}

	missing := len(MissingAnnotations(modules))
	pct := math.Round(float64(total-missing)/float64(total)*100*100) / 100
	if missing > 0 && pct >= 100 {
		return maxPartial
	}

	return pct
}

func slots(fn schema.FunctionDescriptor) int {
	return 1 + len(fn.Params)
}
