package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoProvider implements Provider against an AWS Cognito user pool using
// the admin API.
type CognitoProvider struct {
	client     *cognitoidentityprovider.Client
	userPoolID string
}

// NewCognitoProvider creates a provider bound to a user pool.
func NewCognitoProvider(client *cognitoidentityprovider.Client, userPoolID string) *CognitoProvider {
	return &CognitoProvider{
		client:     client,
		userPoolID: userPoolID,
	}
}

// CreateAccount creates the user with the invitation message suppressed and
// email as the delivery medium, then returns the provider-issued sub.
func (p *CognitoProvider) CreateAccount(ctx context.Context, in CreateAccountInput) (string, error) {
	attrs := make([]types.AttributeType, 0, len(in.Attributes))
	for name, value := range in.Attributes {
		attrs = append(attrs, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	out, err := p.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:             aws.String(p.userPoolID),
		Username:               aws.String(in.Username),
		UserAttributes:         attrs,
		MessageAction:          types.MessageActionTypeSuppress,
		DesiredDeliveryMediums: []types.DeliveryMediumType{types.DeliveryMediumTypeEmail},
	})
	if err != nil {
		return "", classifyCreateError(err)
	}

	if out.User != nil {
		for _, attr := range out.User.Attributes {
			if aws.ToString(attr.Name) == "sub" {
				return aws.ToString(attr.Value), nil
			}
		}
		if out.User.Username != nil {
			return aws.ToString(out.User.Username), nil
		}
	}
	return "", fmt.Errorf("identity provider returned no account id for %q", in.Username)
}

func classifyCreateError(err error) error {
	var usernameExists *types.UsernameExistsException
	if errors.As(err, &usernameExists) {
		return fmt.Errorf("%w: %v", ErrUsernameExists, err)
	}
	var invalidPassword *types.InvalidPasswordException
	if errors.As(err, &invalidPassword) {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}
	var invalidParameter *types.InvalidParameterException
	if errors.As(err, &invalidParameter) {
		return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	return err
}

// FindByEmail looks up an account through the pool's filter expression API.
func (p *CognitoProvider) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return p.findByFilter(ctx, fmt.Sprintf("email = %q", email))
}

// FindByUsername looks up an account through the pool's filter expression API.
func (p *CognitoProvider) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return p.findByFilter(ctx, fmt.Sprintf("username = %q", username))
}

// FindByAttribute looks up an account by an arbitrary attribute name.
func (p *CognitoProvider) FindByAttribute(ctx context.Context, name, value string) (*Account, error) {
	return p.findByFilter(ctx, fmt.Sprintf("%s = %q", name, value))
}

func (p *CognitoProvider) findByFilter(ctx context.Context, filter string) (*Account, error) {
	out, err := p.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(p.userPoolID),
		Filter:     aws.String(filter),
		Limit:      aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("listing users with filter %q: %w", filter, err)
	}
	if len(out.Users) == 0 {
		return nil, nil
	}
	return accountFromUser(out.Users[0]), nil
}

func accountFromUser(u types.UserType) *Account {
	account := &Account{Username: aws.ToString(u.Username)}
	for _, attr := range u.Attributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			account.ID = aws.ToString(attr.Value)
		case "email":
			account.Email = aws.ToString(attr.Value)
		}
	}
	return account
}

// AddToGroup attaches the account to a pool group.
func (p *CognitoProvider) AddToGroup(ctx context.Context, username, group string) error {
	_, err := p.client.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	})
	if err != nil {
		return fmt.Errorf("adding %q to group %q: %w", username, group, err)
	}
	return nil
}

// SetTemporaryPassword sets a non-permanent credential; the user must replace
// it on first sign-in.
func (p *CognitoProvider) SetTemporaryPassword(ctx context.Context, username, password string) error {
	_, err := p.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  false,
	})
	if err != nil {
		return fmt.Errorf("setting temporary password for %q: %w", username, err)
	}
	return nil
}

// MarkEmailUnverified resets the email verification flag so the pool sends
// its verification notification.
func (p *CognitoProvider) MarkEmailUnverified(ctx context.Context, username string) error {
	_, err := p.client.AdminUpdateUserAttributes(ctx, &cognitoidentityprovider.AdminUpdateUserAttributesInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email_verified"), Value: aws.String("false")},
		},
	})
	if err != nil {
		return fmt.Errorf("marking email unverified for %q: %w", username, err)
	}
	return nil
}
