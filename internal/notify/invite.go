package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// CollaborationInvite composes and sends the invitation email for a shared
// itinerary. Returns whether the email was actually sent.
func CollaborationInvite(ctx context.Context, g EmailGateway, to, itineraryTitle, inviterName string, role domain.CollaboratorRole, acceptURL string) (bool, error) {
	var abilities string
	if role == domain.RoleEditor {
		abilities = "view all itinerary details, add and modify destinations, manage transportation details, and add expenses and notes"
	} else {
		abilities = "view all itinerary details, transportation details, expenses and notes"
	}

	return g.Send(ctx, Message{
		To:      to,
		Subject: fmt.Sprintf("Invitation to collaborate on %q", itineraryTitle),
		Text: fmt.Sprintf(
			"%s has invited you to collaborate on %q as a %s. As a %s you can %s. Visit %s to accept the invitation.",
			inviterName, itineraryTitle, role, role, abilities, acceptURL),
	})
}

// ItineraryUpdate notifies a collaborator that an itinerary changed.
func ItineraryUpdate(ctx context.Context, g EmailGateway, to, itineraryTitle, updaterName string, changes []string, viewURL string) (bool, error) {
	return g.Send(ctx, Message{
		To:      to,
		Subject: fmt.Sprintf("Updates to %q", itineraryTitle),
		Text: fmt.Sprintf(
			"%s made changes to %q:\n- %s\nView the itinerary at %s.",
			updaterName, itineraryTitle, strings.Join(changes, "\n- "), viewURL),
	})
}
