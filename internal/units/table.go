package units

var prefixes = map[string]float64{
	"Y": 1e24, "Z": 1e21, "E": 1e18, "P": 1e15, "T": 1e12, "G": 1e9,
	"M": 1e6, "k": 1e3, "h": 1e2, "da": 1e1, "d": 1e-1, "c": 1e-2,
	"m": 1e-3, "u": 1e-6, "µ": 1e-6, "n": 1e-9, "p": 1e-12, "f": 1e-15,
	"a": 1e-18, "z": 1e-21, "y": 1e-24,
}

// prefixOrder lists multi-character prefixes first.
var prefixOrder = []string{
	"da", "µ", "Y", "Z", "E", "P", "T", "G", "M", "k", "h", "d", "c", "m", "u", "n", "p", "f", "a", "z", "y",
}

var (
	length      = Dimension{1, 0, 0, 0, 0, 0, 0}
	mass        = Dimension{0, 1, 0, 0, 0, 0, 0}
	duration    = Dimension{0, 0, 1, 0, 0, 0, 0}
	current     = Dimension{0, 0, 0, 1, 0, 0, 0}
	temperature = Dimension{0, 0, 0, 0, 1, 0, 0}
	amount      = Dimension{0, 0, 0, 0, 0, 1, 0}
	luminosity  = Dimension{0, 0, 0, 0, 0, 0, 1}
)

var (
	newton = Unit{1, Dimension{1, 1, -2, 0, 0, 0, 0}}
	joule  = Unit{1, Dimension{2, 1, -2, 0, 0, 0, 0}}
	watt   = Unit{1, Dimension{2, 1, -3, 0, 0, 0, 0}}
	pascal = Unit{1, Dimension{-1, 1, -2, 0, 0, 0, 0}}
	volt   = Unit{1, Dimension{2, 1, -3, -1, 0, 0, 0}}
)

var named = map[string]Unit{
	"m":   {1, length},
	"g":   {1e-3, mass},
	"s":   {1, duration},
	"A":   {1, current},
	"K":   {1, temperature},
	"mol": {1, amount},
	"cd":  {1, luminosity},

	"N":   newton,
	"J":   joule,
	"W":   watt,
	"Pa":  pascal,
	"V":   volt,
	"C":   {1, Dimension{0, 0, 1, 1, 0, 0, 0}},
	"Hz":  {1, Dimension{0, 0, -1, 0, 0, 0, 0}},
	"Ohm": {1, Dimension{2, 1, -3, -2, 0, 0, 0}},
	"eV":  {1.602176634e-19, joule.Dim},
	"L":   {1e-3, Dimension{3, 0, 0, 0, 0, 0, 0}},
	"bar": {1e5, pascal.Dim},
	"atm": {101325, pascal.Dim},
	"psi": {6894.757293168361, pascal.Dim},

	"min": {60, duration},
	"h":   {3600, duration},
	"day": {86400, duration},

	"in": {0.0254, length},
	"ft": {0.3048, length},
	"mi": {1609.344, length},
	"lb": {0.45359237, mass},
	"R":  {5.0 / 9.0, temperature},
}

// prefixable lists the units that accept an SI prefix.
var prefixable = map[string]bool{
	"m": true, "g": true, "s": true, "A": true, "K": true, "mol": true, "cd": true,
	"N": true, "J": true, "W": true, "Pa": true, "V": true, "C": true, "Hz": true,
	"Ohm": true, "eV": true, "L": true, "bar": true,
}
