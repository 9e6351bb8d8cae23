package numerology

// IsPrime reports whether n is prime using trial division up to the integer
// square root.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i <= n/i; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// IsPrimePtr is IsPrime for optional values; nil is never prime.
func IsPrimePtr(n *int) bool {
	return n != nil && IsPrime(*n)
}
