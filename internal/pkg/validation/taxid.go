package validation

const taxIDLength = 11

// CanonicalTaxID strips every non-digit character.
func CanonicalTaxID(s string) string {
	return OnlyDigits(s)
}

// IsValidTaxID validates a CPF: 11 digits, not all identical, and both check
// digits matching the mod-11 algorithm. Formatting characters are ignored.
func IsValidTaxID(s string) bool {
	cpf := CanonicalTaxID(s)
	if len(cpf) != taxIDLength {
		return false
	}
	var d [taxIDLength]int
	same := true
	for i := 0; i < taxIDLength; i++ {
		d[i] = int(cpf[i] - '0')
		if d[i] != d[0] {
			same = false
		}
	}
	if same {
		return false
	}
	return d[9] == checkDigit(d[:9]) && d[10] == checkDigit(d[:10])
}

// checkDigit weights digits from len+1 down to 2.
func checkDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for i, v := range digits {
		sum += v * (weight - i)
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

// FormatTaxID renders a valid CPF as 123.456.789-09. Invalid input yields "".
func FormatTaxID(s string) string {
	if !IsValidTaxID(s) {
		return ""
	}
	cpf := CanonicalTaxID(s)
	return cpf[0:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:11]
}
