package gesture

// CredentialLatch holds the secret captured by the secondary action until the
// file selection that follows it. It is one-shot: Release always clears it.
type CredentialLatch struct {
	secret string
	armed  bool
}

// Arm stores secret. An empty secret leaves the latch unarmed.
func (l *CredentialLatch) Arm(secret string) bool {
	if secret == "" {
		l.Clear()
		return false
	}
	l.secret = secret
	l.armed = true
	return true
}

func (l *CredentialLatch) Armed() bool { return l.armed }

// Release hands out the credential when files were chosen. With no files the
// credential is discarded; with nothing armed the selection is not authorised.
func (l *CredentialLatch) Release(files []string) (string, bool) {
	secret, armed := l.secret, l.armed
	l.Clear()
	if !armed || len(files) == 0 {
		return "", false
	}
	return secret, true
}

func (l *CredentialLatch) Clear() {
	l.secret = ""
	l.armed = false
}
