// Package payroll computes pay totals on a timesheet and notifies employees of the
// approval decision.
//
// The timesheet has the columns Employee, Email, Hourly Rate, Hours, Total Pay,
// Approval and Notified. Hours above the overtime threshold are paid at the overtime
// multiplier. Rows approved or rejected get one email each; the Notified cell records
// when it was sent.
package payroll
