package release

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SignDetached writes an armored detached signature for path next to it
// (path + ".asc") and returns the signature path. keyFile must be an
// armored PGP private key; passphrase may be empty for unprotected keys.
func SignDetached(path, keyFile, passphrase string) (string, error) {
	keyData, err := os.Open(keyFile)
	if err != nil {
		return "", fmt.Errorf("opening signing key: %w", err)
	}
	defer keyData.Close()

	entities, err := openpgp.ReadArmoredKeyRing(keyData)
	if err != nil {
		return "", fmt.Errorf("reading signing key: %w", err)
	}

	signer, err := signingEntity(entities, passphrase)
	if err != nil {
		return "", err
	}

	msg, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer msg.Close()

	sigPath := path + ".asc"
	out, err := os.Create(sigPath)
	if err != nil {
		return "", err
	}

	if err := openpgp.ArmoredDetachSign(out, signer, msg, nil); err != nil {
		out.Close()
		os.Remove(sigPath)
		return "", fmt.Errorf("signing %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return "", err
	}
	return sigPath, nil
}

// signingEntity picks the first entity with a usable private key,
// decrypting it when a passphrase is supplied.
func signingEntity(entities openpgp.EntityList, passphrase string) (*openpgp.Entity, error) {
	for _, e := range entities {
		if e.PrivateKey == nil {
			continue
		}
		if e.PrivateKey.Encrypted {
			if passphrase == "" {
				return nil, fmt.Errorf("signing key is encrypted and no passphrase is set")
			}
			if err := e.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("decrypting signing key: %w", err)
			}
			for _, sub := range e.Subkeys {
				if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
					if err := sub.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
						return nil, fmt.Errorf("decrypting signing subkey: %w", err)
					}
				}
			}
		}
		return e, nil
	}
	return nil, fmt.Errorf("no private key in keyring")
}
