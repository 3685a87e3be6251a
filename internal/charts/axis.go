package charts

import (
	"math"
	"strconv"
	"strings"
)

// FormatAxisValue renders a tick value the way the dashboard axes do: plain decimals for
// ordinary magnitudes, "e" notation with an explicit exponent sign for very large or small ones
func FormatAxisValue(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	a := math.Abs(v)
	if a >= 1e4 || a < 1e-3 {
		s := strconv.FormatFloat(v, 'e', 5, 64)
		mant, exp, _ := strings.Cut(s, "e")
		if strings.Contains(mant, ".") {
			mant = strings.TrimRight(strings.TrimRight(mant, "0"), ".")
		}
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// axisFormatterJS is the browser counterpart of FormatAxisValue
const axisFormatterJS = `function(v){if(v===0)return "0";var a=Math.abs(v);if(a>=1e4||a<1e-3){var p=v.toExponential(5).split("e");var m=p[0].indexOf(".")>=0?p[0].replace(/0+$/,"").replace(/\.$/,""):p[0];var e=p[1];return m+"e"+(e.charAt(0)==="-"?"-":"+")+e.replace(/^[+-]/,"");}return String(parseFloat(v.toPrecision(6)));}`

// AxisFormatterJS returns the JavaScript tick formatter installed on every chart axis
func AxisFormatterJS() string {
	return axisFormatterJS
}
