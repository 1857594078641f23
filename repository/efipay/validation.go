package efipayrepo

import (
	"errors"
	"math"
	"regexp"
)

var (
	amountRe = regexp.MustCompile(`^\d{1,10}\.\d{2}$`)
	digitsRe = regexp.MustCompile(`[^\d]`)
	txidRe   = regexp.MustCompile(`^[a-zA-Z0-9]{26,35}$`)
)

var (
	ErrInvalidAmount   = errors.New("valor deve seguir o formato 0.00")
	ErrInvalidKey      = errors.New("chave pix excede 77 caracteres")
	ErrInvalidDocument = errors.New("documento deve ter 11 (CPF) ou 14 (CNPJ) digitos")
	ErrInvalidExpiry   = errors.New("expiracao fora do intervalo permitido")
	ErrInvalidTxid     = errors.New("txid deve ser alfanumerico com 26 a 35 caracteres")
)

// SanitizeDocument strips everything but digits from a CPF/CNPJ.
func SanitizeDocument(doc string) string {
	return digitsRe.ReplaceAllString(doc, "")
}

func ValidateTxid(txid string) error {
	if !txidRe.MatchString(txid) {
		return ErrInvalidTxid
	}
	return nil
}

// ValidateCobRequest enforces the provider's /v2/cob constraints before
// the request leaves the process.
func ValidateCobRequest(req CobRequest) error {
	if !amountRe.MatchString(req.Valor.Original) {
		return ErrInvalidAmount
	}
	if req.Chave == "" || len(req.Chave) > 77 {
		return ErrInvalidKey
	}
	if req.Calendario.Expiracao < 1 || req.Calendario.Expiracao > math.MaxInt32 {
		return ErrInvalidExpiry
	}
	if req.Devedor != nil {
		cpf := SanitizeDocument(req.Devedor.CPF)
		cnpj := SanitizeDocument(req.Devedor.CNPJ)
		switch {
		case cpf != "" && len(cpf) != 11:
			return ErrInvalidDocument
		case cnpj != "" && len(cnpj) != 14:
			return ErrInvalidDocument
		case cpf == "" && cnpj == "":
			return ErrInvalidDocument
		}
	}
	return nil
}
