package wordbank

// ConfusablePairs are near-twin word pairs that differ only in accents or a
// single letter. Both members normalize differently, so they are legitimate
// "different pair" targets that still read almost identically.
var ConfusablePairs = [][2]string{
	{"salsa", "selso"},
	{"canon", "cañon"},
	{"esta", "está"},
	{"accion", "acción"},
	{"nino", "niño"},
	{"anio", "año"},
	{"senor", "señor"},
	{"vision", "visión"},
	{"lapiz", "lápiz"},
	{"casa", "caza"},
	{"rio", "río"},
	{"sol", "sal"},
	{"salud", "salid"},
	{"pesa", "peso"},
	{"vino", "fino"},
}
