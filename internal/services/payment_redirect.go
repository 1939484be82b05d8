package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// StripeRedirect résout l'URL de la page Stripe Checkout hébergée à partir
// du sessionId renvoyé par l'API de paiement. Sans clé Stripe configurée,
// on retombe sur le gabarit d'URL fourni (PAYMENT_PAGE_URL avec un %s).
type StripeRedirect struct {
	fallbackTemplate string
}

func NewStripeRedirect(fallbackTemplate string) *StripeRedirect {
	return &StripeRedirect{fallbackTemplate: fallbackTemplate}
}

func (s *StripeRedirect) ResolveURL(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("sessionId vide")
	}

	if stripe.Key != "" {
		sess, err := session.Get(sessionID, nil)
		if err == nil && sess.URL != "" {
			return sess.URL, nil
		}
		log.Printf("⚠️ Session Stripe %s non résolue, bascule sur le gabarit: %v", sessionID, err)
	}

	if s.fallbackTemplate == "" {
		return "", errors.New("aucune clé Stripe ni PAYMENT_PAGE_URL configurée")
	}
	if !strings.Contains(s.fallbackTemplate, "%s") {
		return "", fmt.Errorf("PAYMENT_PAGE_URL sans emplacement %%s: %s", s.fallbackTemplate)
	}
	return fmt.Sprintf(s.fallbackTemplate, sessionID), nil
}

// TemplateRedirect construit l'URL uniquement depuis un gabarit — utilisé
// dans les tests et les environnements sans Stripe
type TemplateRedirect struct {
	Template string
}

func (t *TemplateRedirect) ResolveURL(_ context.Context, sessionID string) (string, error) {
	if t.Template == "" {
		return "", errors.New("gabarit d'URL de paiement absent")
	}
	return fmt.Sprintf(t.Template, sessionID), nil
}
