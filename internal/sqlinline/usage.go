package sqlinline

const QInsertUsageEvent = `--sql e40f651c-a8b3-44c7-a911-bb8a0ed5f6ef
insert into usage_events(id, user_id, event_type, feature, properties, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, coalesce($5::jsonb, '{}'::jsonb), $6::timestamptz);
`

const QCountUsageEventsSince = `--sql 7c3b92e5-1fd8-4a64-b027-48e5da1c9f33
select count(*)
from usage_events
where user_id = $1::uuid
  and event_type = $2::text
  and created_at >= $3::timestamptz;
`
