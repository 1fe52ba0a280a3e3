// Package iam groups the identity and access packages of the account service.
//
//   - iam/auth       password hashing, dual access/refresh tokens, the fiber gate
//   - iam/otp        one-time code challenges for password reset and e-mail verification
//   - iam/federated  Google/Facebook identity verification and account linking
//   - iam/signing    request signing and the replay window for machine clients
//   - iam/account    end-user accounts and the user-facing flows
//   - iam/admin      back-office accounts that carry a role
//   - iam/language   supported locales
//
// Every sub-domain follows the same layering:
//
//	HTTP handler (xxxapi) → service (xxxsrv) → port (Repository) → infrastructure (xxxinfra)
//
// and owns an errx registry ("AUTH", "ACCOUNT", "OTP", ...). Business rule
// violations are typed client errors with a stable code; token verification
// failures are swallowed into "anonymous" and only the gate turns them into
// IAM_UNAUTHORIZED.
//
// # Tokens
//
// Every successful authentication issues an access token and a refresh token,
// each signed with its own secret:
//
//	end user   access 30d   refresh 90d
//	role       access 7d    refresh 30d
//
// # Gate
//
// Routes declare an auth.Policy. The gate reads "Authorization: Bearer <token>",
// checks the role whitelist, and for role-less tokens looks the account up so
// deleted accounts cannot keep using old tokens.
package iam
