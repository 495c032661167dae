// Package models defines the core domain models for Smartsplit.
//
// # Models
//
//   - User: an account identified by email and/or mobile number
//   - Group: a named set of members (tracked by email) that owns expenses
//   - Expense: a shared cost with a payer, participants, and a split policy
//   - Split: the rule dividing an expense among its participants
//   - Settlement: a recorded settle-up payment between two group members
//
// # Design Principles
//
//  1. **IDs, not pointers**: relationships use ID strings to avoid circular
//     references and keep models serializable as-is.
//  2. **Group membership by email**: a group stores member emails, matching
//     how members are invited; resolving emails to users happens at read
//     time, and a member with no account yet simply has no user record.
//  3. **Immutable expenses**: once admitted an expense is never edited;
//     corrections are made with new expenses or settlements.
package models
